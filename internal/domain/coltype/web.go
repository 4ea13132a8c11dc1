package coltype

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// emailType valida direcciones de correo con una regex permisiva.
type emailType struct{}

func (emailType) ID() string { return "email" }

func (emailType) Validate(v entity.Value, _ Options) Result {
	if v.Kind != entity.KindString || !emailRe.MatchString(v.Str) {
		return FailWithSuggestion("Invalid email format", "Add @ symbol and domain (e.g., user@example.com)")
	}
	return OK()
}

func (emailType) Format(v entity.Value, _ Options) string {
	return v.String()
}

func (emailType) Parse(input string, _ Options) (entity.Value, error) {
	return entity.StringValue(strings.ToLower(strings.TrimSpace(input))), nil
}

func (emailType) DefaultValue(_ Options) entity.Value {
	return entity.StringValue("")
}

// urlType exige esquema http(s) y host.
type urlType struct{}

func (urlType) ID() string { return "url" }

func (urlType) Validate(v entity.Value, _ Options) Result {
	if v.Kind != entity.KindString {
		return FailWithSuggestion("Invalid URL format", "Include the protocol (e.g., https://example.com)")
	}
	u, err := url.Parse(v.Str)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return FailWithSuggestion("Invalid URL format", "Include the protocol (e.g., https://example.com)")
	}
	return OK()
}

func (urlType) Format(v entity.Value, _ Options) string {
	return v.String()
}

// Parse antepone https:// cuando la entrada viene sin esquema.
func (urlType) Parse(input string, _ Options) (entity.Value, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return entity.StringValue(""), nil
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return entity.NullValue(), fmt.Errorf("parse url %q: %w", input, err)
	}
	if u.Host == "" {
		return entity.NullValue(), fmt.Errorf("parse url %q: missing host", input)
	}
	return entity.StringValue(u.String()), nil
}

func (urlType) DefaultValue(_ Options) entity.Value {
	return entity.StringValue("")
}

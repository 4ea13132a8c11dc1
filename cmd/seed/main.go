// seed puebla la base de datos con los datos mínimos de arranque: el usuario
// administrador, los tokens integrados del sistema (admin-token y
// frontend-token) y dos tablas de demostración con datos, una de venta y una
// de alquiler.
//
// Uso: go run ./cmd/seed
// El email y password del admin se toman de SEED_ADMIN_EMAIL y
// SEED_ADMIN_PASSWORD; si no están definidos se usan valores de desarrollo.
// Es idempotente: si el usuario admin ya existe no hace nada.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/schema"
	"github.com/jhoicas/Tablas-api/internal/application/typechange"
	"github.com/jhoicas/Tablas-api/internal/domain/coltype"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/validation"
	"github.com/jhoicas/Tablas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tablas-api/internal/modules/phone"
	"github.com/jhoicas/Tablas-api/pkg/config"
	"github.com/jhoicas/Tablas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema de la base de datos")
	}

	userRepo := postgres.NewUserRepository(pool)
	tableRepo := postgres.NewTableRepository(pool)
	colRepo := postgres.NewColumnRepository(pool)
	rowRepo := postgres.NewRowRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	adminEmail := envOr("SEED_ADMIN_EMAIL", "admin@tablas.local")
	adminPassword := envOr("SEED_ADMIN_PASSWORD", "admin123")

	// Idempotencia: si el admin existe, el seed ya corrió.
	existing, err := userRepo.GetByEmail(adminEmail)
	if err != nil {
		log.Fatal().Err(err).Msg("consultar usuario admin")
	}
	if existing != nil {
		log.Info().Str("email", adminEmail).Msg("seed ya aplicado, nada que hacer")
		return
	}

	// ── 1. Usuario administrador ─────────────────────────────────────────────
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hashear password del admin")
	}
	now := time.Now()
	admin := &entity.User{
		ID:           uuid.New().String(),
		Email:        adminEmail,
		PasswordHash: string(hash),
		Name:         "Administrador",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatal().Err(err).Msg("crear usuario admin")
	}
	log.Info().Str("email", adminEmail).Msg("usuario admin creado")

	// ── 2. Tokens integrados del sistema ─────────────────────────────────────
	// Los secretos solo se imprimen acá; después no hay forma de recuperarlos.
	for _, spec := range []struct {
		id, name string
	}{
		{entity.TokenIDAdmin, "Admin token"},
		{entity.TokenIDFrontend, "Frontend token"},
	} {
		tok := &entity.AccessToken{
			ID:          spec.id,
			Token:       newSecret(),
			Name:        spec.name,
			TableAccess: []string{},
			CreatedBy:   admin.ID,
			CreatedAt:   now,
		}
		if err := tokenRepo.Create(tok); err != nil {
			log.Fatal().Err(err).Str("token_id", spec.id).Msg("crear token del sistema")
		}
		fmt.Printf("token %-15s secreto: %s\n", spec.id, tok.Token)
	}

	// ── 3. Tablas de demostración ────────────────────────────────────────────
	zl := log.Zerolog()
	types := coltype.Builtin()
	if err := phone.Register(types); err != nil {
		log.Fatal().Err(err).Msg("registrar módulos de tipos de columna")
	}
	validator := validation.New(types)

	tableUC := schema.NewTableUseCase(tableRepo, colRepo, rowRepo)
	columnUC := schema.NewColumnUseCase(tableRepo, colRepo, types, txRunner, zl)
	rowUC := schema.NewRowUseCase(tableRepo, colRepo, rowRepo, validator, types, txRunner, zl)
	typeChangeUC := typechange.NewUseCase(tableRepo, colRepo, txRunner, zl)

	saleTableID := seedSaleTable(ctx, log, admin.ID, tableUC, columnUC, rowUC, typeChangeUC)
	rentTableID := seedRentTable(ctx, log, admin.ID, tableUC, columnUC, rowUC, typeChangeUC)

	log.Info().
		Str("sale_table", saleTableID).
		Str("rent_table", rentTableID).
		Msg("seed completado")
}

// seedSaleTable crea la tienda demo: columnas libres, migración a sale (crea
// price y qty) y tres productos.
func seedSaleTable(
	ctx context.Context,
	log *logger.Logger,
	adminID string,
	tableUC *schema.TableUseCase,
	columnUC *schema.ColumnUseCase,
	rowUC *schema.RowUseCase,
	typeChangeUC *typechange.UseCase,
) string {
	table, err := tableUC.Create(adminID, dto.CreateTableRequest{
		Name:        "Tienda Demo",
		Description: "Catálogo de ejemplo con venta habilitada",
		Visibility:  entity.VisibilityPublic,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear tabla de venta demo")
	}

	addColumn(log, columnUC, adminID, table.ID, dto.CreateColumnRequest{
		Name: "nombre", ColumnType: "text", IsRequired: true,
	})
	addColumn(log, columnUC, adminID, table.ID, dto.CreateColumnRequest{
		Name: "categoria", ColumnType: "text", AllowDuplicates: true,
	})
	addColumn(log, columnUC, adminID, table.ID, dto.CreateColumnRequest{
		Name: "contacto", ColumnType: phone.TypeDID, AllowDuplicates: true,
	})

	applyType(ctx, log, typeChangeUC, adminID, table.ID, dto.ApplyTypeChangeRequest{
		TargetType: entity.TableTypeSale,
		ColumnMappings: []dto.ColumnMappingDTO{
			{RequiredColumn: "price"},
			{RequiredColumn: "qty"},
		},
	})

	for _, data := range []string{
		`{"nombre":"Silla de madera","categoria":"Muebles","contacto":"+57 311 2345678","price":120.5,"qty":10}`,
		`{"nombre":"Mesa auxiliar","categoria":"Muebles","contacto":"+57 311 2345678","price":89.9,"qty":4}`,
		`{"nombre":"Lámpara de pie","categoria":"Iluminación","contacto":"+1 555 123 4567","price":45,"qty":25}`,
	} {
		addRow(ctx, log, rowUC, adminID, table.ID, data)
	}
	return table.ID
}

// seedRentTable crea la tabla de alquiler demo: migración a rent (crea price,
// fee, used y available) y dos equipos.
func seedRentTable(
	ctx context.Context,
	log *logger.Logger,
	adminID string,
	tableUC *schema.TableUseCase,
	columnUC *schema.ColumnUseCase,
	rowUC *schema.RowUseCase,
	typeChangeUC *typechange.UseCase,
) string {
	table, err := tableUC.Create(adminID, dto.CreateTableRequest{
		Name:        "Alquiler de Equipos",
		Description: "Equipos disponibles para alquiler mensual",
		Visibility:  entity.VisibilityPublic,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear tabla de alquiler demo")
	}

	addColumn(log, columnUC, adminID, table.ID, dto.CreateColumnRequest{
		Name: "equipo", ColumnType: "text", IsRequired: true,
	})

	applyType(ctx, log, typeChangeUC, adminID, table.ID, dto.ApplyTypeChangeRequest{
		TargetType:   entity.TableTypeRent,
		RentalPeriod: entity.RentalPeriodMonthly,
		ColumnMappings: []dto.ColumnMappingDTO{
			{RequiredColumn: "price"},
			{RequiredColumn: "fee"},
			{RequiredColumn: "used"},
			{RequiredColumn: "available"},
		},
	})

	for _, data := range []string{
		`{"equipo":"Proyector Full HD","price":300,"fee":25,"used":false,"available":true}`,
		`{"equipo":"Cámara réflex","price":850,"fee":60,"used":false,"available":true}`,
	} {
		addRow(ctx, log, rowUC, adminID, table.ID, data)
	}
	return table.ID
}

func addColumn(log *logger.Logger, uc *schema.ColumnUseCase, adminID, tableID string, in dto.CreateColumnRequest) {
	if _, err := uc.Add(adminID, true, tableID, in); err != nil {
		log.Fatal().Err(err).Str("column", in.Name).Msg("crear columna demo")
	}
}

func applyType(ctx context.Context, log *logger.Logger, uc *typechange.UseCase, adminID, tableID string, in dto.ApplyTypeChangeRequest) {
	out, err := uc.Apply(ctx, adminID, true, tableID, in)
	if err != nil {
		log.Fatal().Err(err).Str("table_id", tableID).Msg("migrar tipo de tabla demo")
	}
	if len(out.Failures) > 0 {
		log.Fatal().Interface("failures", out.Failures).Msg("la migración demo dejó columnas sin crear")
	}
}

func addRow(ctx context.Context, log *logger.Logger, uc *schema.RowUseCase, adminID, tableID, data string) {
	if _, err := uc.Create(ctx, adminID, true, tableID, dto.CreateRowRequest{Data: json.RawMessage(data)}); err != nil {
		log.Fatal().Err(err).Str("table_id", tableID).Msg("crear fila demo")
	}
}

// newSecret genera el secreto del token: 64 caracteres hex, dos UUID sin
// guiones.
func newSecret() string {
	raw := uuid.New().String() + uuid.New().String()
	return strings.ReplaceAll(raw, "-", "")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

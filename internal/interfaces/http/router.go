package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/application/auth"
	"github.com/jhoicas/Tablas-api/internal/application/commerce"
	"github.com/jhoicas/Tablas-api/internal/application/pubapi"
	"github.com/jhoicas/Tablas-api/internal/application/schema"
	"github.com/jhoicas/Tablas-api/internal/application/stats"
	"github.com/jhoicas/Tablas-api/internal/application/token"
	"github.com/jhoicas/Tablas-api/internal/application/typechange"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TableUC      *schema.TableUseCase
	ColumnUC     *schema.ColumnUseCase
	RowUC        *schema.RowUseCase
	ExportUC     *schema.ExportUseCase
	TypeChangeUC *typechange.UseCase
	CommerceUC   *commerce.UseCase
	ReceiptUC    *commerce.ReceiptUseCase
	PublicUC     *pubapi.UseCase
	AuthUC       *auth.UseCase
	TokenUC      *token.UseCase
	StatsUC      *stats.UseCase
	JWTSecret    string
	ServiceName  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// API pública por token de acceso. El health va ANTES del middleware:
	// responde sin credenciales.
	publicHandler := NewPublicHandler(deps.PublicUC, deps.CommerceUC, deps.ServiceName)
	public := api.Group("/public")
	public.Get("/health", publicHandler.Health)
	public.Use(PublicAuthMiddleware(deps.PublicUC))
	public.Get("/tables", publicHandler.Tables)
	public.Get("/tables/search", publicHandler.Search)
	public.Get("/tables/:tableId/items", publicHandler.Items)
	public.Get("/tables/:tableId/items/:itemId", publicHandler.Item)
	public.Get("/tables/:tableId/items/:itemId/availability", publicHandler.Availability)
	public.Get("/records", publicHandler.Records)
	public.Get("/values/:column", publicHandler.Values)
	public.Post("/buy", publicHandler.Buy)
	public.Post("/rent", publicHandler.RentItem)
	public.Post("/release", publicHandler.ReleaseItem)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Tables (protegido): CRUD, export y subrecursos anidados
	tables := protected.Group("/tables")
	tableHandler := NewTableHandler(deps.TableUC, deps.ExportUC)
	columnHandler := NewColumnHandler(deps.ColumnUC, deps.RowUC)
	rowHandler := NewRowHandler(deps.RowUC)
	typeChangeHandler := NewTypeChangeHandler(deps.TypeChangeUC)
	commerceHandler := NewCommerceHandler(deps.CommerceUC, deps.ReceiptUC)
	tables.Post("/", tableHandler.Create)
	tables.Get("/", tableHandler.List)
	tables.Get("/:id", tableHandler.GetByID)
	tables.Put("/:id", tableHandler.Update)
	tables.Delete("/:id", tableHandler.Delete)
	tables.Get("/:id/export.xml", tableHandler.ExportXML)
	tables.Post("/:id/columns", columnHandler.Add)
	tables.Get("/:id/columns", columnHandler.List)
	tables.Post("/:id/columns/swap", columnHandler.Swap)
	tables.Post("/:id/columns/recount", columnHandler.Recount)
	tables.Post("/:id/rows", rowHandler.Create)
	tables.Get("/:id/rows", rowHandler.List)
	tables.Post("/:id/rows/delete", rowHandler.DeleteMany)
	tables.Get("/:id/validate", rowHandler.Validate)
	tables.Post("/:id/cleanup", rowHandler.Cleanup)
	tables.Get("/:id/type-change", typeChangeHandler.Preview)
	tables.Post("/:id/type-change", typeChangeHandler.Apply)
	tables.Get("/:id/sales", commerceHandler.ListSales)
	tables.Get("/:id/rentals", commerceHandler.ListRentals)
	tables.Get("/:id/transactions", commerceHandler.TableTransactions)
	tables.Post("/:tableId/rows/:rowId/adjust", commerceHandler.Adjust)

	// Columns (protegido, acceso directo por id)
	columns := protected.Group("/columns")
	columns.Get("/:id", columnHandler.GetByID)
	columns.Put("/:id", columnHandler.Update)
	columns.Delete("/:id", columnHandler.Delete)
	columns.Get("/:id/preview-type", columnHandler.PreviewType)

	// Rows (protegido, acceso directo por id)
	rows := protected.Group("/rows")
	rows.Get("/:id", rowHandler.GetByID)
	rows.Put("/:id", rowHandler.Update)
	rows.Delete("/:id", rowHandler.Delete)
	rows.Get("/:id/transactions", commerceHandler.RowTransactions)

	// Commerce (protegido): operaciones de venta y alquiler
	commerceGroup := protected.Group("/commerce")
	commerceGroup.Post("/sell", commerceHandler.Sell)
	commerceGroup.Post("/rent", commerceHandler.Rent)
	commerceGroup.Post("/release", commerceHandler.Release)

	// Sales y rentals (protegido): consulta de asientos
	sales := protected.Group("/sales")
	sales.Get("/:id", commerceHandler.GetSale)
	sales.Put("/:id/status", commerceHandler.UpdateSaleStatus)
	sales.Get("/:id/receipt", commerceHandler.Receipt)

	rentals := protected.Group("/rentals")
	rentals.Get("/:id", commerceHandler.GetRental)
	rentals.Put("/:id/status", commerceHandler.UpdateRentalStatus)

	// Tokens de acceso (solo admin)
	tokens := protected.Group("/tokens", RequireRole(entity.RoleAdmin))
	tokenHandler := NewTokenHandler(deps.TokenUC)
	tokens.Post("/", tokenHandler.Create)
	tokens.Get("/", tokenHandler.List)
	tokens.Delete("/:id", tokenHandler.Delete)

	// Usuarios (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	users.Get("/", authHandler.ListUsers)
	users.Get("/:id", authHandler.GetUser)

	// Dashboard (solo admin)
	dashboardHandler := NewDashboardHandler(deps.StatsUC)
	protected.Get("/dashboard", RequireRole(entity.RoleAdmin), dashboardHandler.Dashboard)
}

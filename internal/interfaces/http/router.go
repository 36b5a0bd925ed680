package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mgarzon/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthHandler      *AuthHandler
	ArticleHandler   *ArticleHandler
	StoreHandler     *StoreHandler
	CatalogueHandler *CatalogueHandler
	LedgerHandler    *LedgerHandler
	StockHandler     *StockHandler
	AdminHandler     *AdminHandler
	JWTSecret        string
}

// Router registra las rutas de la API. Lectura para cualquier usuario
// autenticado; escritura de masterdata y libros para admin y almacenista;
// respaldo, estadísticas y reinicio solo para admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", deps.AuthHandler.Register)
	authGroup.Post("/login", deps.AuthHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writer := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", deps.AuthHandler.Me)

	// Artículos y sub-recursos
	articles := protected.Group("/articles")
	articles.Post("/", writer, deps.ArticleHandler.Create)
	articles.Get("/", deps.ArticleHandler.List)
	articles.Get("/:id", deps.ArticleHandler.GetByID)
	articles.Put("/:id", writer, deps.ArticleHandler.Update)
	articles.Delete("/:id", writer, deps.ArticleHandler.Delete)
	articles.Post("/:id/attributes", writer, deps.ArticleHandler.CreateAttribute)
	articles.Get("/:id/attributes", deps.ArticleHandler.ListAttributes)
	articles.Delete("/:id/attributes/:attrId", writer, deps.ArticleHandler.DeleteAttribute)
	articles.Post("/:id/images", writer, deps.ArticleHandler.CreateImage)
	articles.Get("/:id/images", deps.ArticleHandler.ListImages)
	articles.Delete("/:id/images/:imageId", writer, deps.ArticleHandler.DeleteImage)

	// Almacenes y secciones
	stores := protected.Group("/stores")
	stores.Post("/", writer, deps.StoreHandler.Create)
	stores.Get("/", deps.StoreHandler.List)
	stores.Get("/:id", deps.StoreHandler.GetByID)
	stores.Put("/:id", writer, deps.StoreHandler.Update)
	stores.Delete("/:id", writer, deps.StoreHandler.Delete)
	stores.Post("/:id/sections", writer, deps.StoreHandler.CreateSection)
	stores.Get("/:id/sections", deps.StoreHandler.ListSections)

	sections := protected.Group("/sections")
	sections.Get("/:id", deps.StoreHandler.GetSection)
	sections.Put("/:id", writer, deps.StoreHandler.UpdateSection)
	sections.Delete("/:id", writer, deps.StoreHandler.DeleteSection)

	// Catálogos simples
	manufacturers := protected.Group("/manufacturers")
	manufacturers.Post("/", writer, deps.CatalogueHandler.CreateManufacturer)
	manufacturers.Get("/", deps.CatalogueHandler.ListManufacturers)
	manufacturers.Get("/:id", deps.CatalogueHandler.GetManufacturer)
	manufacturers.Put("/:id", writer, deps.CatalogueHandler.UpdateManufacturer)
	manufacturers.Delete("/:id", writer, deps.CatalogueHandler.DeleteManufacturer)

	receivers := protected.Group("/receivers")
	receivers.Post("/", writer, deps.CatalogueHandler.CreateReceiver)
	receivers.Get("/", deps.CatalogueHandler.ListReceivers)
	receivers.Get("/:id", deps.CatalogueHandler.GetReceiver)
	receivers.Put("/:id", writer, deps.CatalogueHandler.UpdateReceiver)
	receivers.Delete("/:id", writer, deps.CatalogueHandler.DeleteReceiver)

	hashtags := protected.Group("/hashtags")
	hashtags.Post("/", writer, deps.CatalogueHandler.CreateHashtag)
	hashtags.Get("/", deps.CatalogueHandler.ListHashtags)
	hashtags.Get("/:id", deps.CatalogueHandler.GetHashtag)
	hashtags.Put("/:id", writer, deps.CatalogueHandler.UpdateHashtag)
	hashtags.Delete("/:id", writer, deps.CatalogueHandler.DeleteHashtag)

	costUnits := protected.Group("/cost-units")
	costUnits.Post("/", writer, deps.CatalogueHandler.CreateCostUnit)
	costUnits.Get("/", deps.CatalogueHandler.ListCostUnits)
	costUnits.Get("/:id", deps.CatalogueHandler.GetCostUnit)
	costUnits.Put("/:id", writer, deps.CatalogueHandler.UpdateCostUnit)
	costUnits.Delete("/:id", writer, deps.CatalogueHandler.DeleteCostUnit)

	// Libros de movimientos
	protected.Post("/receipts", writer, deps.LedgerHandler.RecordReceipt)
	protected.Get("/receipts", deps.LedgerHandler.ListReceipts)
	protected.Post("/emissions", writer, deps.LedgerHandler.RecordEmission)
	protected.Get("/emissions", deps.LedgerHandler.ListEmissions)

	// Consultas de stock
	stockGroup := protected.Group("/stock")
	stockGroup.Get("/articles", deps.StockHandler.ByArticles)
	stockGroup.Get("/articles/:id", deps.StockHandler.ByArticle)
	stockGroup.Get("/sections", deps.StockHandler.BySections)

	// Administración
	admin := protected.Group("/admin", adminOnly)
	admin.Get("/backup", deps.AdminHandler.ExportBackup)
	admin.Post("/backup", deps.AdminHandler.ImportBackup)
	admin.Get("/stats", deps.AdminHandler.TableStats)
	admin.Get("/stock-health", deps.AdminHandler.StockHealth)
	admin.Post("/restart", deps.AdminHandler.Restart)
}

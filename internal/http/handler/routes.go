package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"doccollect/internal/service"
)

// RegisterRoutes attaches all HTTP routes to the provided Fiber app. Handlers
// stay thin; business rules live in the service layer.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	clients service.ClientService,
	periods service.PeriodService,
	documents service.DocumentService,
) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/clients", CreateClient(clients))
	app.Get("/clients", ListClients(clients))
	app.Get("/clients/:id", GetClient(clients))
	app.Get("/clients/:id/periods", ClientPeriods(periods))

	app.Post("/periods", CreatePeriod(periods))
	app.Post("/periods/bulk", BulkCreatePeriods(periods))
	app.Get("/periods", ListPeriods(periods))
	app.Get("/periods/:id", GetPeriod(periods))
	app.Get("/periods/:id/completion", PeriodCompletion(periods))
	app.Get("/periods/:id/documents", PeriodDocuments(documents))
	app.Post("/periods/:id/requests", CreatePeriodRequest(periods))
	app.Post("/periods/:id/review", ReviewPeriod(periods))
	app.Post("/periods/:id/close", ClosePeriod(periods))
	app.Post("/periods/:id/reopen", ReopenPeriod(periods))
	app.Post("/periods/:id/lock", LockPeriod(periods))

	app.Get("/portal/:periodId", Portal(periods))

	app.Post("/uploads/presign", PresignUpload(documents))
	app.Post("/uploads/confirm", ConfirmUpload(documents))

	// Bulk route must be registered before /documents/:id.
	app.Post("/documents/approve", BulkApproveDocuments(documents))
	app.Get("/documents/:id", GetDocument(documents))
	app.Get("/documents/:id/view", ViewDocument(documents))
	app.Patch("/documents/:id/assignment", AssignDocument(documents))
	app.Post("/documents/:id/approve", ApproveDocument(documents))
	app.Post("/documents/:id/reject", RejectDocument(documents))
	app.Post("/documents/:id/flag", FlagDocument(documents))
	app.Post("/documents/:id/scan-result", ScanResult(documents))
	app.Post("/documents/:id/ocr-result", OCRResult(documents))

	app.Get("/reports/stuck", StuckDocuments(documents))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints:
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>mdpad — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document for the document API. The edit_key only ever
// appears in the create response schema.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "mdpad", "version": "v0.1.0" },
  "paths": {
    "/api/documents": {
      "post": {
        "summary": "Create a document and receive its secret edit key",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"title":{"type":"string","maxLength":200},"content":{"type":"string"}}}}}},
        "responses": { "201": { "description": "id, slug and edit_key" }, "400": { "description": "invalid title or content" }, "429": { "description": "creation rate limit exceeded" } }
      }
    },
    "/api/documents/{ref}": {
      "get": { "summary": "Read a document by id or slug (public, never returns edit_key)", "responses": { "200": { "description": "document" }, "404": { "description": "not found" } } },
      "put": {
        "summary": "Update title and/or content; requires the edit key",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["edit_key"],"properties":{"title":{"type":"string"},"content":{"type":"string"},"edit_key":{"type":"string"}}}}}},
        "responses": { "200": { "description": "updated fields" }, "400": { "description": "invalid field or key shape" }, "403": { "description": "edit key mismatch" }, "404": { "description": "not found" }, "429": { "description": "update rate limit exceeded" } }
      }
    },
    "/api/documents/{ref}/validate": {
      "post": { "summary": "Probe an edit key; always answers 200 with {valid}", "responses": { "200": { "description": "valid: true|false" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`

// Package swagger registers the OpenAPI document served under /docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/killallgit/podcastr-pages"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Name, version and build details of the running service",
                "produces": ["application/json"],
                "tags": ["version"],
                "summary": "Service information",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports service status along with the database and page cache",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/episodes/{slug}": {
            "get": {
                "description": "Returns the pre-rendered HTML page of an episode. Pages past their revalidation time are served stale while they regenerate in the background.",
                "produces": ["text/html"],
                "tags": ["pages"],
                "summary": "Episode page",
                "parameters": [
                    {"type": "string", "description": "Episode slug", "name": "slug", "in": "path", "required": true},
                    {"type": "string", "description": "ETag of a cached copy", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "Rendered page", "schema": {"type": "string"}},
                    "304": {"description": "Not modified", "schema": {"type": "string"}},
                    "404": {"description": "Episode not found", "schema": {"type": "string"}},
                    "500": {"description": "Generation failed", "schema": {"type": "string"}}
                }
            }
        },
        "/api/v1/episodes/{slug}": {
            "get": {
                "description": "Returns the episode data behind a pre-rendered page, generating the page first when needed",
                "produces": ["application/json"],
                "tags": ["episodes"],
                "summary": "Episode page props",
                "parameters": [
                    {"type": "string", "description": "Episode slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PagePropsResponse"}},
                    "304": {"description": "Not modified", "schema": {"type": "string"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/paths": {
            "get": {
                "description": "The most recently published episodes, newest first, together with the fallback policy for other slugs",
                "produces": ["application/json"],
                "tags": ["episodes"],
                "summary": "Pre-rendered paths",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PathsResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/revalidate/{slug}": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Regenerates the page of an episode now instead of waiting for its revalidation time",
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Revalidate a page",
                "parameters": [
                    {"type": "string", "description": "Episode slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RevalidateResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.Episode": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "a-importancia-da-contribuicao-em-open-source"},
                "title": {"type": "string", "example": "A importância da contribuição em Open Source"},
                "thumbnail": {"type": "string", "example": "https://example.com/opensource.jpg"},
                "members": {"type": "string", "example": "Diego Fernandes, João Pedro"},
                "publishedAt": {"type": "string", "example": "8 jan 21"},
                "duration": {"type": "number", "example": 3981},
                "durationAsString": {"type": "string", "example": "01:06:21"},
                "description": {"type": "string", "example": "<p>Nesse episódio...</p>"},
                "url": {"type": "string", "example": "https://example.com/opensource.m4a"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "details": {}
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "timestamp": {"type": "string"},
                "services": {"type": "object", "additionalProperties": true}
            }
        },
        "types.PagePropsResponse": {
            "type": "object",
            "properties": {
                "episode": {"$ref": "#/definitions/models.Episode"}
            }
        },
        "types.PathEntry": {
            "type": "object",
            "properties": {
                "params": {"$ref": "#/definitions/types.PathParams"}
            }
        },
        "types.PathParams": {
            "type": "object",
            "properties": {
                "slug": {"type": "string", "example": "a-importancia-da-contribuicao-em-open-source"}
            }
        },
        "types.PathsResponse": {
            "type": "object",
            "properties": {
                "paths": {"type": "array", "items": {"$ref": "#/definitions/types.PathEntry"}},
                "fallback": {"type": "string", "example": "blocking"}
            }
        },
        "types.RevalidateResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "revalidated": {"type": "boolean"},
                "slug": {"type": "string", "example": "a-importancia-da-contribuicao-em-open-source"},
                "etag": {"type": "string"},
                "generated_at": {"type": "string", "example": "2025-01-01T00:00:00Z"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Bearer token for on-demand revalidation",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Podcastr Pages",
	Description:      "Pre-rendered podcast episode pages with incremental regeneration",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/optimizer/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "API info",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httptransport.rootResp"}}
                }
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Job counts and average scores",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.Stats"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httptransport.apiError"}}
                }
            }
        },
        "/content/submit": {
            "post": {
                "description": "Creates a job in processing state and queues its analyze, optimize and vary stages.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Submit content for optimization",
                "parameters": [
                    {
                        "description": "content (format: text|html, priority: 0=low,1=normal,2=high)",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/entity.ContentInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httptransport.submitResp"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httptransport.apiError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httptransport.apiError"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/httptransport.apiError"}}
                }
            }
        },
        "/content/jobs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "List jobs, newest first",
                "parameters": [
                    {"type": "integer", "description": "max jobs (default 20, max 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "processing|completed|failed", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entity.ContentJob"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httptransport.apiError"}}
                }
            }
        },
        "/content/job/{job_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Get job by id",
                "parameters": [
                    {"type": "string", "description": "job id", "name": "job_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.ContentJob"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httptransport.apiError"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Delete job",
                "parameters": [
                    {"type": "string", "description": "job id", "name": "job_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httptransport.messageResp"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httptransport.apiError"}}
                }
            }
        },
        "/content/job/{job_id}/report": {
            "get": {
                "description": "Works for finished and partial jobs; stages without a result are shown as pending.",
                "produces": ["text/markdown", "application/pdf"],
                "tags": ["content"],
                "summary": "Render job as a report",
                "parameters": [
                    {"type": "string", "description": "job id", "name": "job_id", "in": "path", "required": true},
                    {"type": "string", "description": "markdown (default) or pdf", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httptransport.apiError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httptransport.apiError"}}
                }
            }
        }
    },
    "definitions": {
        "entity.ContentInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "content_type": {"type": "string", "enum": ["article", "social_post", "ad_copy"]},
                "format": {"type": "string", "enum": ["text", "html"]},
                "priority": {"type": "integer"}
            }
        },
        "entity.AnalysisResult": {
            "type": "object",
            "properties": {
                "readability_score": {"type": "number"},
                "seo_score": {"type": "number"},
                "tone": {"type": "string"},
                "keyword_density": {"type": "object", "additionalProperties": {"type": "number"}},
                "word_count": {"type": "integer"},
                "sentence_count": {"type": "integer"},
                "suggestions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "entity.OptimizationResult": {
            "type": "object",
            "properties": {
                "optimized_content": {"type": "string"},
                "improvements": {"type": "array", "items": {"type": "string"}}
            }
        },
        "entity.VariantResult": {
            "type": "object",
            "properties": {
                "variant_a": {"type": "string"},
                "variant_b": {"type": "string"},
                "differences": {"type": "array", "items": {"type": "string"}}
            }
        },
        "entity.ContentJob": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "original_content": {"type": "string"},
                "content_type": {"type": "string"},
                "format": {"type": "string"},
                "priority": {"type": "integer"},
                "status": {"type": "string", "enum": ["processing", "completed", "failed"]},
                "analysis": {"$ref": "#/definitions/entity.AnalysisResult"},
                "optimization": {"$ref": "#/definitions/entity.OptimizationResult"},
                "variants": {"$ref": "#/definitions/entity.VariantResult"},
                "created_at": {"type": "string"},
                "completed_at": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "entity.Stats": {
            "type": "object",
            "properties": {
                "total_jobs": {"type": "integer"},
                "completed_jobs": {"type": "integer"},
                "processing_jobs": {"type": "integer"},
                "failed_jobs": {"type": "integer"},
                "avg_readability_score": {"type": "number"},
                "avg_seo_score": {"type": "number"}
            }
        },
        "httptransport.apiError": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "httptransport.messageResp": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "httptransport.rootResp": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "version": {"type": "string"}}
        },
        "httptransport.submitResp": {
            "type": "object",
            "properties": {"job_id": {"type": "string"}, "status": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Content Optimization Platform API",
	Description:      "Analyzes, optimizes and A/B-varies marketing content in background jobs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

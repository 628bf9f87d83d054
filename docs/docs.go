// Package docs registers the reflectd OpenAPI document with swag so that
// http-swagger can serve it. Regenerate with `swag init -g cmd/reflectd/docs.go`.
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
        "/v1/models": {"get": {"tags": ["models"], "summary": "List registered models", "produces": ["application/json"],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}}}},
        "/v1/prompts": {"get": {"tags": ["models"], "summary": "List prompt templates", "produces": ["application/json"],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PromptsResponse"}}}}},
        "/v1/models/{id}/system-prompt": {
            "get": {"tags": ["system-prompt"], "summary": "Effective system prompt for a model",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SystemPromptResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}},
            "put": {"tags": ["system-prompt"], "summary": "Override the system prompt for a model", "consumes": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.SystemPromptRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SystemPromptResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}},
            "delete": {"tags": ["system-prompt"], "summary": "Remove a system prompt override",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SystemPromptResponse"}}}}
        },
        "/v1/generate": {"post": {"tags": ["inference"], "summary": "Generate text", "consumes": ["application/json"],
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.GenerateRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TextResponse"}},
                "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
        "/v1/chat": {"post": {"tags": ["inference"], "summary": "Continue a conversation", "consumes": ["application/json"],
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ChatRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TextResponse"}}}}},
        "/v1/summarize": {"post": {"tags": ["inference"], "summary": "Summarize a journal entry", "consumes": ["application/json"],
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.TextRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TextResponse"}}}}},
        "/v1/reflect": {"post": {"tags": ["inference"], "summary": "Reflect on a journal entry", "consumes": ["application/json"],
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.ReflectRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TextResponse"}}}}},
        "/v1/mood": {"post": {"tags": ["inference"], "summary": "Analyze the mood of a text", "consumes": ["application/json"],
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.MoodRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.MoodResponse"}}}}},
        "/v1/transcribe": {"post": {"tags": ["inference"], "summary": "Transcribe speech", "consumes": ["application/octet-stream"],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.TextResponse"}},
                "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
        "/v1/embeddings": {"post": {"tags": ["inference"], "summary": "Embed a text", "consumes": ["application/json"],
            "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.TextRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.EmbeddingResponse"}}}}},
        "/status": {"get": {"tags": ["ops"], "summary": "Orchestrator status",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}}}
    },
    "definitions": {
        "types.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "integer"}}},
        "types.TextResponse": {"type": "object", "properties": {"text": {"type": "string"}}},
        "types.MoodResponse": {"type": "object", "properties": {"mood": {"type": "string", "enum": ["happy", "neutral", "reflective", "sad"]}}},
        "types.EmbeddingResponse": {"type": "object", "properties": {"embedding": {"type": "array", "items": {"type": "number"}}, "dims": {"type": "integer"}}},
        "types.TextRequest": {"type": "object", "properties": {"text": {"type": "string"}, "model": {"type": "string"}}},
        "types.GenerateRequest": {"type": "object", "properties": {"text": {"type": "string"}, "model": {"type": "string"}, "prompt_id": {"type": "string"}}},
        "types.MoodRequest": {"type": "object", "properties": {"text": {"type": "string"}, "advanced": {"type": "boolean"}, "model": {"type": "string"}}},
        "types.ReflectRequest": {"type": "object", "properties": {"text": {"type": "string"}, "mood": {"type": "string"}, "model": {"type": "string"}}},
        "types.ConversationTurn": {"type": "object", "properties": {"role": {"type": "string", "enum": ["user", "assistant", "system"]}, "content": {"type": "string"}}},
        "types.ChatRequest": {"type": "object", "properties": {"messages": {"type": "array", "items": {"$ref": "#/definitions/types.ConversationTurn"}}, "model": {"type": "string"}}},
        "types.SystemPromptRequest": {"type": "object", "properties": {"prompt": {"type": "string"}}},
        "types.SystemPromptResponse": {"type": "object", "properties": {"model_id": {"type": "string"}, "prompt": {"type": "string"}, "overridden": {"type": "boolean"}}},
        "types.ModelConfig": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "task": {"type": "string"}, "backend": {"type": "string"}, "provider": {"type": "string"}, "path": {"type": "string"}, "max_tokens": {"type": "integer"}, "temperature": {"type": "number"}, "system_prompt": {"type": "string"}}},
        "types.ModelsResponse": {"type": "object", "properties": {"models": {"type": "array", "items": {"$ref": "#/definitions/types.ModelConfig"}}}},
        "types.PromptTemplate": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "content": {"type": "string"}, "usage": {"type": "string"}}},
        "types.PromptsResponse": {"type": "object", "properties": {"prompts": {"type": "array", "items": {"$ref": "#/definitions/types.PromptTemplate"}}}},
        "types.PipelineStatus": {"type": "object", "properties": {"model_id": {"type": "string"}, "task": {"type": "string"}, "loaded_unix": {"type": "integer"}, "last_used_unix": {"type": "integer"}, "load_ms": {"type": "integer"}}},
        "types.StatusResponse": {"type": "object", "properties": {"pipelines": {"type": "array", "items": {"$ref": "#/definitions/types.PipelineStatus"}}, "overrides": {"type": "array", "items": {"type": "string"}}, "models": {"type": "integer"}, "last_error": {"type": "string"}, "loads_total": {"type": "integer"}, "load_errors_total": {"type": "integer"}, "loads_in_progress": {"type": "integer"}, "uptime_seconds": {"type": "integer"}, "server_time_unix": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "reflectd API",
	Description:      "Model orchestration for a journaling app: mood analysis, reflection, summaries, chat, speech and embeddings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

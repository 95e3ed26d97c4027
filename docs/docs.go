// Package docs registers the OpenAPI document of the energylabel API with swag
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Host login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/questionnaires": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["questionnaires"],
                "summary": "List the host's questionnaires",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["questionnaires"],
                "summary": "Store a questionnaire",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/questionnaires/default": {
            "get": {
                "tags": ["questionnaires"],
                "summary": "Bundled default questionnaire",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/questionnaires/{id}": {
            "get": {
                "tags": ["questionnaires"],
                "summary": "Get a questionnaire",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["questionnaires"],
                "summary": "Replace a questionnaire",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/Error"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["questionnaires"],
                "summary": "Delete a questionnaire",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/questionnaires/{id}/evaluate": {
            "post": {
                "tags": ["evaluation"],
                "summary": "Score an answer map",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "questionnaire id or default", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Result"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/questionnaires/{id}/visibility": {
            "post": {
                "tags": ["evaluation"],
                "summary": "Active questions and choices for an answer map",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.VisibilityState"}}}
            }
        },
        "/questionnaires/{id}/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["statistics"],
                "summary": "Label distribution",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/questionnaires/{id}/assessments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["statistics"],
                "summary": "Recent submissions",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions": {
            "post": {
                "tags": ["sessions"],
                "summary": "Open an answering session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/sessions/{id}": {
            "get": {
                "security": [{"SessionAuth": []}],
                "tags": ["sessions"],
                "summary": "Session answers and visibility",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"SessionAuth": []}],
                "tags": ["sessions"],
                "summary": "Discard a session",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/sessions/{id}/answers/{questionId}": {
            "put": {
                "security": [{"SessionAuth": []}],
                "tags": ["sessions"],
                "summary": "Set one answer",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "question id or question text", "name": "questionId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/sessions/{id}/answers": {
            "delete": {
                "security": [{"SessionAuth": []}],
                "tags": ["sessions"],
                "summary": "Clear all answers",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sessions/{id}/submit": {
            "post": {
                "security": [{"SessionAuth": []}],
                "tags": ["sessions"],
                "summary": "Score and record a session",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Result"}}}
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "model.LoginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "model.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "hostId": {"type": "string"}}
        },
        "model.Line": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "name": {"type": "string"},
                "points": {"type": "integer"},
                "factor": {"type": "number"}
            }
        },
        "model.Result": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "colour": {"type": "string"},
                "score": {"type": "integer"},
                "details": {"type": "array", "items": {"type": "string"}},
                "breakdown": {"type": "array", "items": {"$ref": "#/definitions/model.Line"}}
            }
        },
        "model.VisibilityState": {
            "type": "object",
            "properties": {
                "activeQuestions": {"type": "array", "items": {"type": "string"}},
                "activeChoices": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "SessionAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Energylabel API",
	Description:      "Questionnaire evaluation service: visibility of questions and energy label scoring.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs holds the OpenAPI description of the backend served at /swagger.
// Keep it in sync with the handler annotations in internal/handlers.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/events/live/{subject}": {
            "get": {
                "description": "Current sleep/phone/away state, replayed from today's events.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Live status",
                "parameters": [
                    {"type": "string", "description": "Subject id", "name": "subject", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LiveStatus"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/events/today/{subject}": {
            "get": {
                "description": "Stored transitions of the current day, oldest first.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Today's events",
                "parameters": [
                    {"type": "string", "description": "Subject id", "name": "subject", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.ActivityEvent"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/events/{subject}": {
            "post": {
                "description": "Edge-triggered: stores start/end only when the state of the activity changes.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Record observation",
                "parameters": [
                    {"type": "string", "description": "Subject id", "name": "subject", "in": "path", "required": true},
                    {"description": "Observation", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.EventRequest"}}
                ],
                "responses": {
                    "200": {"description": "recorded", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/summary/today/{subject}": {
            "get": {
                "description": "Minutes per activity over today's events and the productivity score against a 12h day.",
                "produces": ["application/json"],
                "tags": ["summary"],
                "summary": "Today's summary",
                "parameters": [
                    {"type": "string", "description": "Subject id", "name": "subject", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Summary"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "WebSocket stream of status_update or status_batch_update envelopes. ?subject= limits it to one subject.",
                "tags": ["events"],
                "summary": "Push channel",
                "parameters": [
                    {"type": "string", "description": "Subject id", "name": "subject", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            }
        }
    },
    "definitions": {
        "handlers.EventRequest": {
            "type": "object",
            "required": ["active", "event_type"],
            "properties": {
                "active": {"description": "Whether the activity is currently observed", "type": "boolean", "example": true},
                "event_type": {"description": "Activity type. Allowed: sleep, phone, away", "type": "string", "example": "phone"}
            }
        },
        "models.ActivityEvent": {
            "type": "object",
            "properties": {
                "event_type": {"type": "string", "example": "sleep"},
                "status": {"type": "string", "example": "start"},
                "timestamp": {"type": "string", "example": "2026-03-02T09:00:00Z"}
            }
        },
        "models.LiveStatus": {
            "type": "object",
            "properties": {
                "away": {"type": "boolean"},
                "phone": {"type": "boolean"},
                "sleep": {"type": "boolean"}
            }
        },
        "models.Summary": {
            "type": "object",
            "properties": {
                "away_minutes": {"type": "integer"},
                "date": {"type": "string", "example": "2026-03-02"},
                "message": {"type": "string"},
                "phone_minutes": {"type": "integer"},
                "productive_minutes": {"type": "integer"},
                "productivity_score": {"type": "integer"},
                "sleep_minutes": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Activity monitor backend",
	Description:      "Event store, live status, daily summary and push channel for the activity dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registra la descripción OpenAPI servida en /swagger/*.
// Se mantiene en sync con las anotaciones godoc de los handlers (swag init -g cmd/api/main.go -o internal/docs).
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
        "/platform/availability": {
            "get": {"tags": ["platform"], "summary": "Disponibilidad de la plataforma", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/platform/permissions": {
            "get": {"tags": ["platform"], "summary": "Permisos de temperatura corporal", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "502": {"description": "la consulta de permisos falló"}}}
        },
        "/recorder/state": {
            "get": {"tags": ["recorder"], "summary": "Estado del recorder", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/recorder/permissions/check": {
            "post": {"tags": ["recorder"], "summary": "Chequear permisos", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/recorder/validate": {
            "post": {"tags": ["recorder"], "summary": "Validar input", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/recorder.validateRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "invalid json"}}}
        },
        "/recorder/recordings": {
            "post": {"tags": ["recorder"], "summary": "Registrar temperatura", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Subject", "in": "header"},
                    {"type": "string", "name": "X-Subject-Name", "in": "header"},
                    {"type": "string", "name": "X-Subject-Role", "in": "header"},
                    {"type": "string", "name": "X-Subject-ID", "in": "header"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/recorder.recordRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "fuera de rango / input inválido"},
                    "403": {"description": "permisos faltantes"}, "502": {"description": "la plataforma rechazó la operación"},
                    "503": {"description": "plataforma no disponible"}}}
        },
        "/recorder/identity": {
            "get": {"tags": ["recorder"], "summary": "Identidad de contexto", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "204": {"description": "sin identidad"}}},
            "put": {"tags": ["recorder"], "summary": "Fijar identidad de contexto", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/recorder.identityRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "identidad inválida"}}}
        },
        "/recorder/recent": {
            "get": {"tags": ["recorder"], "summary": "Lecturas recientes", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/recorder/recent/refresh": {
            "post": {"tags": ["recorder"], "summary": "Releer lecturas recientes", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "ventana inválida"}}}
        },
        "/history": {
            "get": {"tags": ["history"], "summary": "Cargar historial", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "rango inválido"},
                    "403": {"description": "permisos faltantes"}, "503": {"description": "plataforma no disponible"}}}
        },
        "/history/state": {
            "get": {"tags": ["history"], "summary": "Estado del historial", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/history/{recordID}": {
            "delete": {"tags": ["history"], "summary": "Borrar lectura", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "recordID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "permisos faltantes"},
                    "404": {"description": "registro inexistente"}}}
        }
    },
    "definitions": {
        "recorder.validateRequest": {"type": "object", "properties": {"input": {"type": "string"}}},
        "recorder.recordRequest": {"type": "object", "required": ["value"],
            "properties": {"value": {"type": "number"}, "unit": {"type": "string", "enum": ["C", "F"]}}},
        "recorder.identityRequest": {"type": "object", "required": ["display_name"],
            "properties": {"display_name": {"type": "string"}, "role": {"type": "string"}, "subject_id": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Temperature History API",
	Description:      "Registro, historial y borrado de temperatura corporal sobre una plataforma de salud con permisos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

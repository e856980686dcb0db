package http

import (
	"crowdgit/internal/core/version"

	"github.com/swaggo/swag/v2"
)

// DocName is the swag instance the status API document is registered under
const DocName = "status"

// Doc describes the status API. Every payload is wrapped in the response envelope
var Doc = &swag.Spec{
	Title:            "crowdgit status API",
	Description:      "Commit counts, contributor lookups and re-ingests of tenant repositories",
	InfoInstanceName: DocName,
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	Doc.Version = version.Info().Version
	swag.Register(Doc.InstanceName(), Doc)
}

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{.Description}}",
    "version": "{{.Version}}"
  },
  "components": {
    "securitySchemes": {
      "bearer": { "type": "http", "scheme": "bearer" }
    },
    "parameters": {
      "remote": {
        "name": "remote", "in": "query", "required": true,
        "schema": { "type": "string" },
        "description": "repository remote URL"
      }
    },
    "schemas": {
      "Envelope": {
        "type": "object",
        "properties": {
          "status_code": { "type": "integer" },
          "status": { "type": "string" },
          "code": { "type": "string" },
          "error": { "type": "string" },
          "field": { "type": "string" },
          "request_id": { "type": "string" },
          "data": {}
        }
      },
      "Lease": {
        "type": "object",
        "properties": {
          "held": { "type": "boolean" },
          "owner": { "type": "string" },
          "expiresAt": { "type": "string", "format": "date-time" }
        }
      },
      "RepoStats": {
        "type": "object",
        "properties": {
          "remote": { "type": "string" },
          "key": { "type": "string" },
          "num_commits": { "type": "integer" },
          "lease": { "$ref": "#/components/schemas/Lease" },
          "cached_members": { "type": "integer" },
          "deliveries": { "type": "object", "additionalProperties": { "type": "integer" } }
        }
      },
      "User": {
        "type": "object",
        "properties": {
          "email": { "type": "string" },
          "name": { "type": "string" },
          "username": { "type": "string" }
        }
      },
      "Reonboard": {
        "type": "object",
        "properties": {
          "message": { "type": "string" },
          "remote": { "type": "string" }
        }
      }
    },
    "responses": {
      "Error": {
        "description": "error envelope",
        "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Envelope" } } }
      }
    }
  },
  "security": [ { "bearer": [] } ],
  "paths": {
    "/": {
      "get": {
        "summary": "authenticated liveness",
        "responses": {
          "200": { "description": "hello message" },
          "401": { "$ref": "#/components/responses/Error" }
        }
      }
    },
    "/stats": {
      "get": {
        "summary": "commit count, lease and cache size of a repository",
        "parameters": [ { "$ref": "#/components/parameters/remote" } ],
        "responses": {
          "200": {
            "description": "repository stats in data",
            "content": { "application/json": { "schema": { "$ref": "#/components/schemas/RepoStats" } } }
          },
          "400": { "$ref": "#/components/responses/Error" },
          "404": { "$ref": "#/components/responses/Error" }
        }
      }
    },
    "/user-by-email": {
      "get": {
        "summary": "first contributor of a repository with the given email",
        "parameters": [
          { "$ref": "#/components/parameters/remote" },
          { "name": "email", "in": "query", "required": true, "schema": { "type": "string" } }
        ],
        "responses": {
          "200": {
            "description": "contributor in data",
            "content": { "application/json": { "schema": { "$ref": "#/components/schemas/User" } } }
          },
          "400": { "$ref": "#/components/responses/Error" },
          "404": { "$ref": "#/components/responses/Error" }
        }
      }
    },
    "/reonboard": {
      "get": {
        "summary": "drop the identity cache and re-ingest a repository in the background",
        "parameters": [ { "$ref": "#/components/parameters/remote" } ],
        "responses": {
          "202": {
            "description": "re-ingest started",
            "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Reonboard" } } }
          },
          "404": { "$ref": "#/components/responses/Error" },
          "503": { "$ref": "#/components/responses/Error" }
        }
      }
    },
    "/meta/version": {
      "get": {
        "summary": "build information",
        "responses": { "200": { "description": "service, version, commit and date" } }
      }
    },
    "/meta/ready": {
      "get": {
        "summary": "store readiness",
        "responses": { "200": { "description": "per store checks and uptime" } }
      }
    },
    "/health": {
      "get": {
        "summary": "process liveness",
        "security": [],
        "responses": { "200": { "description": "ok" } }
      }
    }
  }
}`

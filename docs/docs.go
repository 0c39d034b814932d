package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "CropGuard Spoilage Risk API",
    "description": "Submits shipments to the spoilage analysis webhook and returns normalized risk outcomes",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/api/assessments": {
      "post": {
        "tags": ["assessments"],
        "summary": "Submit a shipment for spoilage risk assessment",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [{"in": "body", "name": "shipment", "required": true, "schema": {"$ref": "#/definitions/ShipmentInput"}}],
        "responses": {
          "200": {"description": "Settled outcome", "schema": {"$ref": "#/definitions/Outcome"}},
          "400": {"description": "Validation error"},
          "409": {"description": "An assessment is already in progress"}
        }
      }
    },
    "/api/assessments/retry": {
      "post": {
        "tags": ["assessments"],
        "summary": "Retry the last submission",
        "produces": ["application/json"],
        "responses": {
          "200": {"description": "Settled outcome", "schema": {"$ref": "#/definitions/Outcome"}},
          "409": {"description": "Nothing to retry or already in progress"}
        }
      }
    },
    "/api/assessments/current": {
      "get": {
        "tags": ["assessments"],
        "summary": "Current outcome for the session",
        "produces": ["application/json"],
        "responses": {"200": {"description": "Outcome", "schema": {"$ref": "#/definitions/Outcome"}}}
      },
      "delete": {
        "tags": ["assessments"],
        "summary": "Clear the outcome for the session",
        "responses": {"204": {"description": "Cleared"}}
      }
    }
  },
  "definitions": {
    "ShipmentInput": {
      "type": "object",
      "required": ["truck_id", "truck_city", "crops", "warehouse_city", "email"],
      "properties": {
        "truck_id": {"type": "string", "maxLength": 50},
        "truck_city": {"type": "string", "maxLength": 100},
        "crops": {"type": "string", "maxLength": 500},
        "warehouse_city": {"type": "string", "maxLength": 100},
        "email": {"type": "string", "format": "email"},
        "transport_type": {"type": "string", "enum": ["refrigerated", "ventilated", "open", "closed"]},
        "temperature_c": {"type": "number"},
        "humidity_pct": {"type": "number"},
        "duration_hours": {"type": "number"},
        "phone": {"type": "string", "maxLength": 30},
        "notes": {"type": "string", "maxLength": 500}
      }
    },
    "Outcome": {
      "type": "object",
      "properties": {
        "status": {"type": "string", "enum": ["idle", "pending", "success", "failure"]},
        "result": {"type": "object"},
        "failure": {"type": "object"},
        "input": {"$ref": "#/definitions/ShipmentInput"},
        "latency_ms": {"type": "integer"}
      }
    }
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}

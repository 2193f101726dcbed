// Package docs registers the swagger document served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log a user in",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a user",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/cart": {
            "get": {
                "tags": ["cart"],
                "summary": "Get the caller's cart",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["cart"],
                "summary": "Overwrite the caller's cart",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/orders": {
            "get": {
                "tags": ["orders"],
                "summary": "List the caller's orders, newest first",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["orders"],
                "summary": "Save a new order",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/api/payment/order": {
            "post": {
                "tags": ["payment"],
                "summary": "Create a payment-gateway order",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/payment/verify": {
            "post": {
                "tags": ["payment"],
                "summary": "Verify a payment signature",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid signature"}}
            }
        },
        "/api/shipments": {
            "post": {
                "tags": ["shipping"],
                "summary": "Manifest a shipment with the carrier",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Order not found"}}
            }
        },
        "/api/shipments/track": {
            "get": {
                "tags": ["shipping"],
                "summary": "Track a shipment by waybill",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/shipping/rate": {
            "post": {
                "tags": ["shipping"],
                "summary": "Quote a shipping rate",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/webhooks/delhivery": {
            "post": {
                "tags": ["shipping"],
                "summary": "Carrier status webhook",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Malformed payload"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "Checkout Service API",
	Description:      "Payment, shipping and order API for the storefront",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

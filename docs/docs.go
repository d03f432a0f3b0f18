// Package docs registers the Swagger document of the offer engine HTTP API.
// It mirrors the swag annotations on the handlers in internal/adapter/http and the
// general API info in cmd/server; regenerate it with `swag init -g cmd/server/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/flight-search/flight-offer-engine/issues"
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
        "/api/v1/offers/filter": {
            "post": {
                "description": "Normalize raw supplier offers and run them through a filter profile",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "offers"
                ],
                "summary": "Filter supplier offers",
                "parameters": [
                    {
                        "description": "Filter context and raw offer batches",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/http.FilterOffersRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/usecase.FilterResult"
                        }
                    },
                    "400": {
                        "description": "Validation error or unknown profile",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorDetail"
                        }
                    },
                    "422": {
                        "description": "Offers cannot be compared",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorDetail"
                        }
                    },
                    "504": {
                        "description": "Gateway timeout",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorDetail"
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Report service status and the filter profile definitions version",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "operations"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.HealthResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.DurationInfo": {
            "type": "object",
            "properties": {
                "formatted": {
                    "type": "string",
                    "example": "7h 10m"
                },
                "totalMinutes": {
                    "type": "integer",
                    "example": 430
                }
            }
        },
        "domain.FilterParams": {
            "type": "object",
            "required": [
                "currency",
                "departureDate",
                "destinationLocationCode",
                "originLocationCode",
                "passengers"
            ],
            "properties": {
                "budget": {
                    "type": "string",
                    "example": "500.00"
                },
                "currency": {
                    "type": "string",
                    "example": "USD"
                },
                "departureDate": {
                    "type": "string",
                    "example": "2025-12-15"
                },
                "destinationLocationCode": {
                    "type": "string",
                    "example": "LHR"
                },
                "nonstopRequired": {
                    "type": "boolean"
                },
                "originLocationCode": {
                    "type": "string",
                    "example": "JFK"
                },
                "passengers": {
                    "type": "integer",
                    "maximum": 9,
                    "minimum": 1,
                    "example": 1
                },
                "returnDate": {
                    "type": "string",
                    "example": "2025-12-22"
                }
            }
        },
        "domain.FlightPoint": {
            "type": "object",
            "properties": {
                "airportCode": {
                    "type": "string",
                    "example": "JFK"
                },
                "dateTime": {
                    "type": "string"
                },
                "terminal": {
                    "type": "string"
                }
            }
        },
        "domain.Itinerary": {
            "type": "object",
            "properties": {
                "duration": {
                    "$ref": "#/definitions/domain.DurationInfo"
                },
                "segments": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Segment"
                    }
                }
            }
        },
        "domain.Offer": {
            "type": "object",
            "properties": {
                "carryOnFee": {
                    "type": "string",
                    "example": "40.00"
                },
                "carryOnFeeScope": {
                    "type": "string",
                    "enum": [
                        "per_passenger",
                        "per_offer"
                    ]
                },
                "carryOnIncluded": {
                    "type": "boolean"
                },
                "currency": {
                    "type": "string",
                    "example": "USD"
                },
                "id": {
                    "type": "string"
                },
                "itineraries": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Itinerary"
                    }
                },
                "provider": {
                    "type": "string",
                    "enum": [
                        "amadeus",
                        "duffel"
                    ]
                },
                "rawData": {
                    "type": "object"
                },
                "stopsCount": {
                    "type": "integer"
                },
                "totalBasePrice": {
                    "type": "string",
                    "example": "480.00"
                },
                "totalPriceWithCarryOn": {
                    "type": "string",
                    "example": "520.00"
                },
                "validatingAirlines": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "domain.Segment": {
            "type": "object",
            "properties": {
                "arrival": {
                    "$ref": "#/definitions/domain.FlightPoint"
                },
                "carrierCode": {
                    "type": "string",
                    "example": "BA"
                },
                "departure": {
                    "$ref": "#/definitions/domain.FlightPoint"
                },
                "duration": {
                    "$ref": "#/definitions/domain.DurationInfo"
                },
                "flightNumber": {
                    "type": "string",
                    "example": "BA112"
                },
                "id": {
                    "type": "string"
                },
                "numberOfStops": {
                    "type": "integer"
                }
            }
        },
        "http.BatchDTO": {
            "type": "object",
            "properties": {
                "offers": {
                    "type": "array",
                    "items": {
                        "type": "object"
                    }
                },
                "provider": {
                    "type": "string",
                    "example": "duffel"
                }
            }
        },
        "http.FilterOffersRequest": {
            "type": "object",
            "properties": {
                "batches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/http.BatchDTO"
                    }
                },
                "context": {
                    "$ref": "#/definitions/domain.FilterParams"
                },
                "profile": {
                    "type": "string",
                    "enum": [
                        "standard",
                        "autobook",
                        "flexible"
                    ]
                }
            }
        },
        "response.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "details": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "response.HealthResponse": {
            "type": "object",
            "properties": {
                "profileVersion": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "version": {
                    "type": "string"
                }
            }
        },
        "usecase.FailureSummary": {
            "type": "object",
            "properties": {
                "batch": {
                    "type": "integer"
                },
                "index": {
                    "type": "integer"
                },
                "offerId": {
                    "type": "string"
                },
                "path": {
                    "type": "string"
                },
                "provider": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "usecase.FilterResult": {
            "type": "object",
            "properties": {
                "metadata": {
                    "$ref": "#/definitions/usecase.Metadata"
                },
                "offers": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Offer"
                    }
                }
            }
        },
        "usecase.Metadata": {
            "type": "object",
            "properties": {
                "context": {
                    "$ref": "#/definitions/domain.FilterParams"
                },
                "durationMs": {
                    "type": "integer"
                },
                "executionId": {
                    "type": "string"
                },
                "normalizationFailures": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/usecase.FailureSummary"
                    }
                },
                "offersNormalized": {
                    "type": "integer"
                },
                "offersReceived": {
                    "type": "integer"
                },
                "profile": {
                    "type": "string"
                },
                "profileVersion": {
                    "type": "string"
                },
                "stageStats": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/usecase.StageStats"
                    }
                }
            }
        },
        "usecase.Rejection": {
            "type": "object",
            "properties": {
                "offerId": {
                    "type": "string"
                },
                "provider": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "usecase.StageStats": {
            "type": "object",
            "properties": {
                "dropped": {
                    "type": "integer"
                },
                "input": {
                    "type": "integer"
                },
                "output": {
                    "type": "integer"
                },
                "rejections": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/usecase.Rejection"
                    }
                },
                "stage": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Flight Offer Filtering API",
	Description:      "Normalizes raw supplier flight offers into one canonical model and filters them through named profiles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package http implements the HTTP request handlers for the indicator
// dashboard API. Handlers stay thin: they parse and validate the request,
// delegate to the service layer, and render the response.
//
// All error responses follow the RFC 7807 Problem Details format:
//
//	{
//	    "type": "/errors/indicator/not-found",
//	    "title": "Indicator Not Found",
//	    "status": 404,
//	    "detail": "Indicator 'wti_oil' not found",
//	    "instance": "/api/indicators/wti_oil"
//	}
//
// Handlers depend on service interfaces rather than concrete services so
// tests can substitute mocks, and each handler exposes its routes through a
// Routes() chi.Router for mounting by the application.
package http

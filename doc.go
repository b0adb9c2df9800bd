// Package backend provides the FuseLink API server.

// This package contains the main application entry point. The actual API
// documentation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: Authentication and token issuance
// - internal/store: Ordered sequences behind links, collections, social links
// - internal/analytics: Event context classification and rollup queries
// - internal/geo: Best-effort IP geolocation
// - internal/database: Database connection and migrations
// - internal/cache: Optional Redis caching for analytics reads
// - internal/middleware: HTTP middleware (rate limiting, logging, metrics)
// - internal/telemetry: OpenTelemetry tracing setup
// - internal/seed: Development and test data seeding

// See the individual package documentation for detailed API reference.
package backend

// Package llm provides the inference-service boundary for batch transaction
// categorization. It supports provider clients with retry logic, rate
// limiting, response caching, and strict per-entry schema validation.
package llm

// Package operation provides the shared framework for connector operations.
//
// Integrations (internal/integration) implement Connector and are registered
// with a Registry under a provider name. Callers address an operation as
// "provider.operation", e.g. "imagekit.sync_files".
//
// The operation framework handles:
//   - Error classification (validation, upstream, auth)
//   - Registry lookup and dispatch
//   - Metrics and tracing around every execution
//
// Protocol concerns live in the transport subpackage; request construction
// shared by integrations lives in api; multipart bodies in multipart.
package operation

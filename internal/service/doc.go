// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the task
// store (defined in internal/store) to fulfill application features.
//
// The service layer depends on domain entities and store interfaces, never
// on a specific database implementation.
//
// Error handling:
//   - Expected conditions are returned as sentinel errors (ErrTaskNotFound)
//   - Unexpected failures are wrapped in *TaskServiceError with the failing operation
//   - The API layer maps service errors to HTTP status codes with errors.Is
package service

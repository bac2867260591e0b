// Package service hosts the plan lifecycle operations that sit above the
// stores and below the HTTP handlers: creating a plan from an AI-generated
// outline and reading plan summaries.
package service

// Package signup implements the scratch org provisioning pipeline: identity
// pre-check, settings validation, remote submission, and classification of
// remote failures into the signup error taxonomy.
package signup

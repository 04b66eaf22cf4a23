// Package services holds the shared error taxonomy for external collaborators
// such as the transcoder process.
package services

// Package domain contains the core business entities and errors for
// document-grounded chat: documents and their chunks, retrieved passages,
// chat sessions and messages, and content-based document identity.
package domain

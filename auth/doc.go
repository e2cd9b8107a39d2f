// Package auth verifies Telegram login widget payloads, keeps short-lived
// sessions in memory and exposes them to the document service as actors.
//
// Authentication only gates access to render and preview calls. It never
// influences document content.
package auth

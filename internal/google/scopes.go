package google

// DocumentsScope grants read and write access to Google Docs the service
// account can see.
const DocumentsScope = "https://www.googleapis.com/auth/documents"

// DefaultScopes are requested when building the Docs HTTP client.
var DefaultScopes = []string{DocumentsScope}

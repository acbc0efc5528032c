// Package mindfulmedia is the MindfulMedia engagement and access service.
//
// Viewers like, comment on, and follow media, and the service remembers what
// they watched and where they stopped. Password and membership gates decide
// who may see protected items and playlists.
//
// Binaries live under cmd/: server is the HTTP API, migrate creates or drops
// the schema, seed fills a development database, and cli inspects data.
package mindfulmedia

// Package docs provides generated OpenAPI documentation.
//
// Spellpane API
//
//	@title			Spellpane API
//	@version		1.0
//	@description	Spelling task pane: scan a document, review misspelled words, replace them or add them to the dictionary.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/spellpane
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http
package docs

//go:generate swag init -g ../cmd/spellpane/serve.go -o ./swagger --parseDependency --parseInternal

// Package docs provides generated OpenAPI documentation.
//
// Bindery API
//
//	@title			Bindery API
//	@version		1.0
//	@description	Split PDF books into per-chapter files along their table of contents.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/bindery/bindery
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/bindery/serve.go -o ./swagger --parseDependency --parseInternal

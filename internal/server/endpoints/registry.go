package endpoints

import (
	"github.com/bindery/bindery/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health
		&HealthEndpoint{},

		// Documents
		&UploadDocumentEndpoint{},
		&DocumentInfoEndpoint{},
		&DocumentPDFEndpoint{},

		// TOC
		&GetTOCEndpoint{},
		&EditTOCEndpoint{},
		&LLMTOCEndpoint{},

		// Split jobs
		&SplitEndpoint{},
		&JobStatusEndpoint{},
		&JobDownloadEndpoint{},
	}
}

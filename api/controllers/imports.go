package controllers

import (
	"io"
	"net/http"

	"github.com/dquinterov/mesacompras-backend/api/responses"
	"github.com/dquinterov/mesacompras-backend/internal/importer"
	"github.com/dquinterov/mesacompras-backend/pkg/config"
	pkgerrors "github.com/dquinterov/mesacompras-backend/pkg/errors"
	"github.com/dquinterov/mesacompras-backend/pkg/logger"
)

// formFileField is the multipart field carrying the spreadsheet.
const formFileField = "archivo"

type importFunc func(r *http.Request, invoiceID int64, file io.Reader) (*importer.Report, error)

// ImportGeneric ingests a generic vendor spreadsheet into pedidos.
func ImportGeneric(svc importer.Service, cfg config.ImportConfig, logg *logger.Logger) http.HandlerFunc {
	return importHandler(cfg, logg, func(r *http.Request, invoiceID int64, file io.Reader) (*importer.Report, error) {
		return svc.ImportGeneric(r.Context(), invoiceID, file)
	})
}

// ImportVilnius ingests a Vilnius-format spreadsheet into pedidos.
func ImportVilnius(svc importer.Service, cfg config.ImportConfig, logg *logger.Logger) http.HandlerFunc {
	return importHandler(cfg, logg, func(r *http.Request, invoiceID int64, file io.Reader) (*importer.Report, error) {
		return svc.ImportVilnius(r.Context(), invoiceID, file)
	})
}

func importHandler(cfg config.ImportConfig, logg *logger.Logger, run importFunc) http.HandlerFunc {
	maxBytes := int64(cfg.MaxUploadMB) << 20
	return func(w http.ResponseWriter, r *http.Request) {
		invoiceID, err := pathID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload exceeds limit or is not multipart"))
			return
		}

		file, _, err := r.FormFile(formFileField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "spreadsheet file field 'archivo' required"))
			return
		}
		defer file.Close()

		report, err := run(r, invoiceID, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

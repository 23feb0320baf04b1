package objectstorage

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
)

// isObjectNameRgx is a regular expression to match object names.
var isObjectNameRgx = regexp.MustCompile(`^([a-zA-Z0-9]+)\.(jpg|jpeg|png)`)

// UploadImageWithFormHandler uploads images through a multipart form. It
// expects the request to contain a "file" field with one or more files and
// responds with the URLs of the stored objects.
func (osc *Client) UploadImageWithFormHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}

	// 32 MB is the default used by FormFile() function
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		errors.ErrStorageInvalidObject.Withf("could not parse form: %v", err).Write(w)
		return
	}

	// fileHeaders are accessible only after ParseMultipartForm is called
	filesFound := false
	var returnURLs []string
	for _, fileHeaders := range r.MultipartForm.File {
		for _, fileHeader := range fileHeaders {
			file, err := fileHeader.Open()
			if err != nil {
				errors.ErrStorageInvalidObject.Withf("cannot open file %s: %v", fileHeader.Filename, err).Write(w)
				return
			}
			filesFound = true
			storedFileID, err := osc.Put(r.Context(), file, fileHeader.Size, user.Email)
			_ = file.Close()
			if err != nil {
				errors.ErrInternalStorageError.Withf("%s %v", fileHeader.Filename, err).Write(w)
				return
			}
			returnURLs = append(returnURLs, objectURL(osc.ServerURL, storedFileID))
		}
	}
	if !filesFound {
		errors.ErrStorageInvalidObject.With("no files found").Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, map[string][]string{"urls": returnURLs})
}

// DownloadImageInlineHandler retrieves the object from storage and serves it
// inline.
func (osc *Client) DownloadImageInlineHandler(w http.ResponseWriter, r *http.Request) {
	objectName := chi.URLParam(r, "objectName")
	if objectName == "" {
		errors.ErrMalformedURLParam.With("objectName is required").Write(w)
		return
	}
	if !isObjectNameRgx.MatchString(objectName) {
		errors.ErrStorageInvalidObject.With("invalid objectName").Write(w)
		return
	}
	object, err := osc.Get(r.Context(), objectName)
	if err != nil {
		errors.ErrStorageInvalidObject.Withf("cannot get object %v", err).Write(w)
		return
	}
	w.Header().Set("Content-Type", object.ContentType)
	w.Header().Set("Content-Disposition", "inline")
	if _, err := w.Write(object.Data); err != nil {
		errors.ErrInternalStorageError.Withf("cannot write object %v", err).Write(w)
		return
	}
}

// objectURL returns the URL for the object with the given objectID.
func objectURL(baseURL, objectID string) string {
	return fmt.Sprintf("%s/storage/%s", baseURL, objectID)
}

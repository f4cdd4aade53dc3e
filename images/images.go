// Package images stores uploaded recipe and ingredient pictures. Uploads are
// decoded, fitted inside MaxSide x MaxSide and re-encoded as JPEG under a
// random name, so the stored file never carries client-chosen names or data.
package images

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"recipesplusplus/utils"
)

const (
	MaxUploadSize = 10 << 20
	MaxSide       = 1024
	FormField     = "image"
	// MaxSourceSide caps the declared dimensions of an upload. Decoding
	// allocates for the declared size before reading pixel data.
	MaxSourceSide = 8192
)

type Handler struct {
	// Dir is where files are written.
	Dir string
	// URLPrefix is the public path Dir is served under.
	URLPrefix string
}

// UploadImage accepts a multipart "image" field and returns its public URL
// as image_url, ready to be used in an ingredient or recipe body.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, _, err := r.FormFile(FormField)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, "missing image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, "failed to read image")
		return
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, "unsupported image")
		return
	}
	if cfg.Width > MaxSourceSide || cfg.Height > MaxSourceSide {
		utils.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("image larger than %dx%d", MaxSourceSide, MaxSourceSide))
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		utils.RespondWithError(w, r, http.StatusBadRequest, "unsupported image")
		return
	}
	img = imaging.Fit(img, MaxSide, MaxSide, imaging.Lanczos)

	if err := os.MkdirAll(h.Dir, os.ModePerm); err != nil {
		utils.RespondWithFailure(w, r, fmt.Errorf("create upload dir: %w", err), "no image saved")
		return
	}

	name := uuid.New().String() + ".jpg"
	if err := imaging.Save(img, filepath.Join(h.Dir, name), imaging.JPEGQuality(85)); err != nil {
		utils.RespondWithFailure(w, r, fmt.Errorf("save image: %w", err), "no image saved")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"image_url": path.Join(h.URLPrefix, name)})
}

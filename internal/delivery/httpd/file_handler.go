package httpd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// multipartMemoryLimit ограничивает буферизацию формы в памяти, остальное уходит на диск.
const multipartMemoryLimit = 8 << 20

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded or file is empty.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded or file is empty.")
		return
	}
	defer file.Close()

	resp, err := h.fileService.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	blobName := chi.URLParam(r, "blobName")
	if blobName == "" {
		writeMessage(w, http.StatusBadRequest, "Blob name is required.")
		return
	}

	resp, err := h.fileService.Download(r.Context(), blobName)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	defer resp.Content.Close()

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resp.BlobName))
	if resp.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", resp.Size))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, resp.Content); err != nil {
		h.logger.Error().Err(err).Str("blob_name", blobName).Msg("streaming download failed")
	}
}

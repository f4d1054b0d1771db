package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpupo63/blog-platform-backend/errs"
)

// uploadPostImage stores a post's image under a deterministic name derived
// from the post id and updates the post. The previous image is removed
// unless it is the default placeholder.
func (h postHandler) uploadPostImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromRequest(r)

		postID, err := postIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, errs.FromDatabase("find", "post", err))
			return
		}

		if !canMutate(identity, post.UserID) {
			h.responder.WriteError(w, errs.NewForbiddenError("Not authorized to update this post"))
			return
		}

		// Cap the whole request body; the per-file size check below gives
		// the friendlier message for oversized files inside the form.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+formOverhead)

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("Please upload a file"))
			return
		}
		defer file.Close()

		if header.Size > h.maxUpload {
			h.responder.WriteError(w, errs.NewBadRequestError(
				fmt.Sprintf("Please upload an image less than %d bytes", h.maxUpload)))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("Problem with file upload"))
			return
		}

		if !strings.HasPrefix(http.DetectContentType(data), "image/") {
			h.responder.WriteError(w, errs.NewBadRequestError("Please upload an image file"))
			return
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		filename := fmt.Sprintf("post_%s%s", post.ID, ext)

		h.removeStoredImage(post.Image)

		if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
			h.responder.WriteError(w, errs.NewInternalError("Problem with file upload"))
			return
		}
		if err := os.WriteFile(filepath.Join(h.uploadDir, filename), data, 0o644); err != nil {
			h.logger.Error().Err(err).Str("filename", filename).Msg("failed to store upload")
			h.responder.WriteError(w, errs.NewInternalError("Problem with file upload"))
			return
		}

		post.Image = filename
		if err := h.postRepo.Update(post); err != nil {
			h.responder.WriteError(w, errs.FromDatabase("update", "post", err))
			return
		}

		h.responder.WriteData(w, filename)
	}
}

// formOverhead leaves room for multipart boundaries and headers on top of
// the file payload itself.
const formOverhead = 10 << 10

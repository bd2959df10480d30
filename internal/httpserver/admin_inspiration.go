package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/media"
	"github.com/Skotchmaster/colormania/internal/service"
)

const inspirationPath = "/admin-inspiracion"

func (h *AdminHTTP) InspirationList(c echo.Context) error {
	images, err := h.Inspiration.List(c.Request().Context())
	if err != nil {
		return h.fail(c, "admin_inspiration", err, "")
	}
	return h.render(c, http.StatusOK, "admin_inspiration.html", "Inspiración", map[string]any{"Images": images})
}

func (h *AdminHTTP) InspirationUpload(c echo.Context) error {
	fh, err := c.FormFile("foto")
	if err != nil {
		return h.fail(c, "admin_inspiration_upload", &service.ValidationError{Msg: "Selecciona una imagen."}, inspirationPath)
	}
	if fh.Size > media.MaxUploadBytes {
		return h.fail(c, "admin_inspiration_upload", &service.ValidationError{Msg: "La imagen excede el tamaño máximo permitido."}, inspirationPath)
	}
	src, err := fh.Open()
	if err != nil {
		return h.fail(c, "admin_inspiration_upload", err, inspirationPath)
	}
	defer src.Close()

	if _, err := h.Inspiration.Upload(c.Request().Context(), fh.Filename, src); err != nil {
		return h.fail(c, "admin_inspiration_upload", err, inspirationPath)
	}
	return h.done(c, "Imagen subida.", inspirationPath)
}

func (h *AdminHTTP) InspirationDelete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Inspiration.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "admin_inspiration_delete", err, inspirationPath)
	}
	return h.done(c, "Imagen eliminada.", inspirationPath)
}

package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/colormania/internal/transport"
	"github.com/Skotchmaster/colormania/internal/util"
)

const usersPath = "/admin-usuarios"

func (h *AdminHTTP) UserList(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	users, meta, err := h.Users.List(c.Request().Context(), page)
	if err != nil {
		return h.fail(c, "admin_users", err, "")
	}
	return h.render(c, http.StatusOK, "admin_users.html", "Usuarios", map[string]any{"Users": users, "Page": meta})
}

func (h *AdminHTTP) UserCreateForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "admin_user_form.html", "Crear usuario", map[string]any{
		"Action": usersPath + "/crear",
		"Form":   transport.UserForm{},
		"New":    true,
	})
}

func (h *AdminHTTP) UserCreate(c echo.Context) error {
	var form transport.UserForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
	}
	user, err := h.Users.AdminCreate(c.Request().Context(), form.Input())
	if err != nil {
		return h.fail(c, "admin_user_create", err, usersPath+"/crear")
	}
	return h.done(c, fmt.Sprintf("Usuario %s creado.", user.Email), usersPath)
}

func (h *AdminHTTP) UserUpdateForm(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := h.Users.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "admin_user_get", err, "")
	}
	return h.render(c, http.StatusOK, "admin_user_form.html", "Actualizar usuario", map[string]any{
		"Action": fmt.Sprintf("%s/%d/actualizar", usersPath, id),
		"Form":   transport.UserFormOf(user),
	})
}

// UserUpdate leaves the password alone when the field is blank.
func (h *AdminHTTP) UserUpdate(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var form transport.UserForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido.")
	}
	user, err := h.Users.AdminUpdate(c.Request().Context(), id, form.Input())
	if err != nil {
		return h.fail(c, "admin_user_update", err, fmt.Sprintf("%s/%d/actualizar", usersPath, id))
	}
	return h.done(c, fmt.Sprintf("Usuario %s actualizado.", user.Email), usersPath)
}

func (h *AdminHTTP) UserDelete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "admin_user_delete", err, usersPath)
	}
	return h.done(c, "Usuario eliminado.", usersPath)
}

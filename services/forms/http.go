package forms

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pola2025/leadform/engine/echofunctions"
	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/formfield"
	"github.com/pola2025/leadform/goutils/exporter"
	"github.com/pola2025/leadform/leadclient"
	"github.com/pola2025/leadform/services/authn"
)

// InitFormsForHTTP 注册表单的路由，读字段、渲染和提交是公开的，其它的需要门户的 token
func InitFormsForHTTP(mux *echo.Group, svc *FormService, auth ...echo.MiddlewareFunc) {
	h := &formsHandler{svc: svc}

	mux.GET("/forms/:tenant/fields", h.get)
	mux.POST("/forms/:tenant/render", h.render)
	mux.POST("/forms/:tenant/submit", h.submit)

	portal := mux.Group("/forms/:tenant", append(auth, h.checkTenant)...)
	portal.PUT("/fields", h.put)
	portal.GET("/editor", h.editor)
	portal.POST("/fields/presets/:preset", h.addPreset)
	portal.POST("/fields/custom", h.addCustomField)
	portal.POST("/fields/reorder", h.reorder)
	portal.GET("/fields/export/:format", h.export)
	portal.PATCH("/fields/:id", h.updateField)
	portal.DELETE("/fields/:id", h.deleteField)
	portal.POST("/fields/:id/toggle_enabled", h.toggleEnabled)
	portal.POST("/fields/:id/toggle_required", h.toggleRequired)
	portal.PUT("/fields/:id/options", h.setOptions)
	portal.PUT("/fields/:id/condition", h.setCondition)
}

type formsHandler struct {
	svc *FormService
}

func bind(c echo.Context, value interface{}) error {
	if err := c.Bind(value); err != nil {
		return errors.NewBadArgument(err, c.Request().Method+" "+c.Path(), "body")
	}
	return nil
}

func (h *formsHandler) checkTenant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := authn.CheckTenant(echofunctions.GetContext(c), c.Param("tenant")); err != nil {
			return err
		}
		return next(c)
	}
}

func (h *formsHandler) get(c echo.Context) error {
	fields, err := h.svc.Get(echofunctions.GetContext(c), c.Param("tenant"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fields)
}

func (h *formsHandler) put(c echo.Context) error {
	var fields formfield.Schema
	if err := bind(c, &fields); err != nil {
		return err
	}
	if err := h.svc.Put(echofunctions.GetContext(c), c.Param("tenant"), fields); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *formsHandler) editor(c echo.Context) error {
	editor, err := h.svc.Editor(echofunctions.GetContext(c), c.Param("tenant"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, editor)
}

func (h *formsHandler) render(c echo.Context) error {
	var req leadclient.ValuesRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	state, err := h.svc.Render(echofunctions.GetContext(c), c.Param("tenant"), req.Values)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

func (h *formsHandler) submit(c echo.Context) error {
	var req leadclient.ValuesRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.svc.Submit(echofunctions.GetContext(c), c.Param("tenant"), req.Values)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *formsHandler) addPreset(c echo.Context) error {
	return h.schema(c)(h.svc.AddPreset(echofunctions.GetContext(c), c.Param("tenant"), c.Param("preset")))
}

func (h *formsHandler) addCustomField(c echo.Context) error {
	var field leadclient.CustomField
	if err := bind(c, &field); err != nil {
		return err
	}
	result, err := h.svc.AddCustomField(echofunctions.GetContext(c), c.Param("tenant"), &field)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *formsHandler) updateField(c echo.Context) error {
	var patch formfield.FieldPatch
	if err := bind(c, &patch); err != nil {
		return err
	}
	return h.schema(c)(h.svc.UpdateField(echofunctions.GetContext(c), c.Param("tenant"), c.Param("id"), &patch))
}

func (h *formsHandler) deleteField(c echo.Context) error {
	return h.schema(c)(h.svc.DeleteField(echofunctions.GetContext(c), c.Param("tenant"), c.Param("id")))
}

func (h *formsHandler) toggleEnabled(c echo.Context) error {
	return h.schema(c)(h.svc.ToggleEnabled(echofunctions.GetContext(c), c.Param("tenant"), c.Param("id")))
}

func (h *formsHandler) toggleRequired(c echo.Context) error {
	return h.schema(c)(h.svc.ToggleRequired(echofunctions.GetContext(c), c.Param("tenant"), c.Param("id")))
}

func (h *formsHandler) setOptions(c echo.Context) error {
	var req leadclient.OptionsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.schema(c)(h.svc.SetOptions(echofunctions.GetContext(c), c.Param("tenant"), c.Param("id"), req.Options))
}

func (h *formsHandler) setCondition(c echo.Context) error {
	var req leadclient.ConditionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.schema(c)(h.svc.SetCondition(echofunctions.GetContext(c), c.Param("tenant"), c.Param("id"), req.Condition))
}

func (h *formsHandler) reorder(c echo.Context) error {
	var req leadclient.ReorderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return h.schema(c)(h.svc.Reorder(echofunctions.GetContext(c), c.Param("tenant"), req.Dragged, req.Target))
}

func (h *formsHandler) export(c echo.Context) error {
	ctx := echofunctions.GetContext(c)
	tenant := c.Param("tenant")
	recorder, err := h.svc.Export(ctx, tenant)
	if err != nil {
		return err
	}
	inline := c.QueryParam("inline") == "true"
	return exporter.WriteHTTP(ctx, tenant+"-fields", c.Param("format"), c.QueryParam("file_encoding"), inline, c.Response(), recorder)
}

func (h *formsHandler) schema(c echo.Context) func(formfield.Schema, error) error {
	return func(fields formfield.Schema, err error) error {
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, fields)
	}
}

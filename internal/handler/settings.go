package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/config"
	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/repository"
	"github.com/fly24/backoffice/internal/store"
)

// SettingsHandler serves the settings surfaces: airline and agency
// directories, pricing rules and managed-user accounts. Fine-grained
// settings permissions are enforced inside the store.
type SettingsHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Roles    *repository.RoleRepo
	Registry *store.Registry
}

func NewSettingsHandler(cfg config.Config, u *repository.UserRepo, r *repository.RoleRepo, reg *store.Registry) *SettingsHandler {
	return &SettingsHandler{Cfg: cfg, Users: u, Roles: r, Registry: reg}
}

// ----- airlines -----

func (h *SettingsHandler) ListAirlines(c echo.Context) error {
	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	return c.JSON(http.StatusOK, echo.Map{"airlines": st.Airlines()})
}

func (h *SettingsHandler) CreateAirline(c echo.Context) error {
	var in store.AirlineInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(in.Name) == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "name required"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	created, err := st.CreateAirline(c.Request().Context(), in)
	if err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *SettingsHandler) UpdateAirline(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airline id"})
	}
	var in store.AirlineInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	updated, err := st.UpdateAirline(c.Request().Context(), id, in)
	if err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *SettingsHandler) DeleteAirline(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid airline id"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	if err := st.DeleteAirline(c.Request().Context(), id); err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// ----- agencies -----

func (h *SettingsHandler) ListAgencies(c echo.Context) error {
	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	return c.JSON(http.StatusOK, echo.Map{"agencies": st.Agencies()})
}

func (h *SettingsHandler) CreateAgency(c echo.Context) error {
	var in store.AgencyInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(in.Name) == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "name required"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	created, err := st.CreateAgency(c.Request().Context(), in)
	if err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *SettingsHandler) UpdateAgency(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid agency id"})
	}
	var in store.AgencyInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	updated, err := st.UpdateAgency(c.Request().Context(), id, in)
	if err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *SettingsHandler) DeleteAgency(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid agency id"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	if err := st.DeleteAgency(c.Request().Context(), id); err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// ----- pricing -----

func (h *SettingsHandler) GetPricing(c echo.Context) error {
	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	return c.JSON(http.StatusOK, echo.Map{"pricing": st.Pricing()})
}

func (h *SettingsHandler) PutPricing(c echo.Context) error {
	var p model.Pricing
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if p.Adult < 0 || p.Child < 0 || p.Infant < 0 || p.Tax < 0 || p.Surcharge < 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "amounts must be non-negative"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	if err := st.SavePricing(c.Request().Context(), p); err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pricing": p})
}

// ----- managed users -----

type createManagedUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // Staff | Manager
}

func (h *SettingsHandler) ListManagedUsers(c echo.Context) error {
	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	return c.JSON(http.StatusOK, echo.Map{"users": st.ManagedUsers()})
}

// CreateManagedUser creates a Staff or Manager account operating under
// the viewer's account scope: an auth user, the role assignment linking
// it to the owner, and the directory row. Requires settings.user_create.
func (h *SettingsHandler) CreateManagedUser(c echo.Context) error {
	var req createManagedUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "email/password required"})
	}
	if req.Role != model.RoleStaff && req.Role != model.RoleManager {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "role must be Staff or Manager"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	// Gate before creating any auth rows.
	if !st.CanCreateUser() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	target := st.TargetAccount()
	if err := h.Roles.AssignRole(ctx, uid, req.Role, &target); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign role failed"})
	}

	created, err := st.AddManagedUser(c.Request().Context(), uid, req.Email, req.Role)
	if err != nil {
		return writeStoreErr(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

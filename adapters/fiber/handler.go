package fiber

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/khuluma/core"
)

// GET /opportunities
func (a *Adapter) listOpportunities(c fiber.Ctx) error {
	params := core.ListParams{
		Filter: core.ListFilter{
			Category: c.Query("category"),
			Type:     c.Query("type"),
			Search:   c.Query("search"),
		},
		Page: queryInt(c, "page"),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit := queryInt(c, "limit")
		params.Limit = &limit
	}

	result, err := a.k.Listings.List(c.Context(), params, viewer(c))
	if err != nil {
		return respondError(c, a.logger, err)
	}

	return respond(c, http.StatusOK, "Opportunities retrieved successfully", result)
}

// GET /opportunities/:id
func (a *Adapter) getOpportunity(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, a.logger, err)
	}

	opportunity, err := a.k.Opportunities.Get(c.Context(), id, viewer(c))
	if err != nil {
		return respondError(c, a.logger, err)
	}

	return respond(c, http.StatusOK, "Opportunity retrieved successfully", fiber.Map{"opportunity": opportunity})
}

// POST /opportunities/:id/apply
func (a *Adapter) apply(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, a.logger, err)
	}

	var input core.ApplyInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(Envelope{Message: msgInvalidBody, Code: CodeInvalidRequest})
	}
	input.OpportunityID = id

	application, err := a.k.Opportunities.Apply(c.Context(), *viewer(c), input)
	if err != nil {
		return respondError(c, a.logger, err)
	}

	return respond(c, http.StatusCreated, "Application submitted successfully", application)
}

// POST /opportunities/:id/bookmark
func (a *Adapter) toggleBookmark(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, a.logger, err)
	}

	bookmarked, err := a.k.Opportunities.ToggleBookmark(c.Context(), *viewer(c), id)
	if err != nil {
		return respondError(c, a.logger, err)
	}

	message := "Bookmark removed"
	if bookmarked {
		message = "Bookmark added"
	}
	return respond(c, http.StatusOK, message, fiber.Map{"bookmarked": bookmarked})
}

// GET /categories
func (a *Adapter) listCategories(c fiber.Ctx) error {
	categories, err := a.k.Opportunities.Categories(c.Context())
	if err != nil {
		return respondError(c, a.logger, err)
	}

	return respond(c, http.StatusOK, "Categories retrieved successfully", fiber.Map{
		"categories": categories,
		"count":      len(categories),
	})
}

// POST /auth/login
func (a *Adapter) login(c fiber.Ctx) error {
	var input core.LoginInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(Envelope{Message: msgInvalidBody, Code: CodeInvalidRequest})
	}

	result, err := a.k.Auth.Login(c.Context(), input)
	if err != nil {
		return respondError(c, a.logger, err)
	}

	return respond(c, http.StatusOK, "Login successful", result)
}

// GET /auth/session
func (a *Adapter) session(c fiber.Ctx) error {
	return respond(c, http.StatusOK, "Session is valid", fiber.Map{"client_id": *viewer(c)})
}

// DELETE /auth/session
func (a *Adapter) logout(c fiber.Ctx) error {
	if err := a.k.Auth.Logout(c.Context(), sessionToken(c)); err != nil {
		return respondError(c, a.logger, err)
	}

	return respond(c, http.StatusOK, "Signed out successfully", nil)
}

// GET /health
func (a *Adapter) health(c fiber.Ctx) error {
	report := a.k.Health.Health(c.Context())

	status := http.StatusOK
	if report.Database != "up" {
		status = http.StatusServiceUnavailable
	}
	return c.Status(status).JSON(Envelope{
		Success: status == http.StatusOK,
		Message: report.Status,
		Data:    report,
	})
}

// queryInt parses an integer query parameter. Missing or malformed values
// read as 0 and are clamped downstream.
func queryInt(c fiber.Ctx, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

func paramID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ErrInvalidID
	}
	return id, nil
}

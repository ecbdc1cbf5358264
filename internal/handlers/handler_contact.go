package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/cashbook_ledger/internal/core/ports/services"
	"github.com/SscSPs/cashbook_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type contactHandler struct {
	contactService portssvc.ContactSvcFacade
}

func registerContactRoutes(rg *gin.RouterGroup, contactService portssvc.ContactSvcFacade) {
	h := &contactHandler{contactService: contactService}

	contacts := rg.Group("/contacts")
	{
		contacts.POST("", h.createContact)
		contacts.GET("", h.listContacts)
		contacts.GET("/:contactID", h.getContact)
		contacts.PATCH("/:contactID", h.updateContact)
		contacts.DELETE("/:contactID", h.deleteContact)
	}
}

func (h *contactHandler) createContact(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.CreateContactRequest
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), c.Param("orgID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create contact")
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// listContacts handles GET /contacts?search=.
func (h *contactHandler) listContacts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	contacts, err := h.contactService.ListContacts(c.Request.Context(), c.Param("orgID"), c.Query("search"), userID)
	if err != nil {
		respondError(c, err, "Failed to list contacts")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *contactHandler) getContact(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	contact, err := h.contactService.GetContact(c.Request.Context(), c.Param("orgID"), c.Param("contactID"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *contactHandler) updateContact(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req dto.UpdateContactRequest
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), c.Param("orgID"), c.Param("contactID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *contactHandler) deleteContact(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.contactService.DeleteContact(c.Request.Context(), c.Param("orgID"), c.Param("contactID"), userID); err != nil {
		respondError(c, err, "Failed to delete contact")
		return
	}
	c.Status(http.StatusNoContent)
}

package controllers

import (
	"fmt"
	"log"

	"academix/backend/config"
	"academix/backend/services"
	"academix/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ContactController struct {
	Cfg    *config.Config
	Mail   services.Mailer
	Logger *log.Logger
}

func NewContactController(cfg *config.Config, mail services.Mailer, logger *log.Logger) *ContactController {
	return &ContactController{Cfg: cfg, Mail: mail, Logger: logger}
}

type ContactRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNo     string `json:"phoneNo"`
	CountryCode string `json:"countrycode"`
	Message     string `json:"message" validate:"required"`
}

// ContactUs forwards a contact-form submission to the support inbox and
// sends the sender a confirmation copy.
func (cc *ContactController) ContactUs(c *fiber.Ctx) error {
	var input ContactRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	supportBody := fmt.Sprintf(
		"<h2>New contact request</h2><p><b>Name:</b> %s %s</p><p><b>Email:</b> %s</p><p><b>Phone:</b> %s %s</p><p>%s</p>",
		input.FirstName, input.LastName, input.Email, input.CountryCode, input.PhoneNo, input.Message)

	if err := cc.Mail.Send(cc.Cfg.SupportMail, "Contact form: "+input.FirstName, supportBody); err != nil {
		return utils.InternalServerError(c, "Could not send message", err.Error())
	}

	confirmBody := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for reaching out. We received your message and will get back to you shortly.</p>",
		input.FirstName)
	if err := cc.Mail.Send(input.Email, "We received your message", confirmBody); err != nil {
		cc.Logger.Printf("contact confirmation to %s failed: %v", input.Email, err)
	}

	return utils.SuccessMessage(c, "Message sent successfully", nil)
}

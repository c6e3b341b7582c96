package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevent/internal/domain"
)

func TestTemplateRenderer_BookingConfirmation(t *testing.T) {
	renderer := NewTemplateRenderer()
	subject, htmlBody, textBody, err := renderer.Render("booking_confirmation", &domain.BookingConfirmationEmailData{
		Email:      "jane@example.com",
		EventTitle: "React Conf 2026",
		EventDate:  "2026-10-05",
		EventTime:  "09:00",
		Venue:      "Moscone Center",
		Location:   "San Francisco, CA",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your seat is booked: React Conf 2026", subject)
	assert.Contains(t, htmlBody, "React Conf 2026")
	assert.Contains(t, htmlBody, "2026-10-05")
	assert.Contains(t, textBody, "Moscone Center, San Francisco, CA")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	renderer := NewTemplateRenderer()
	_, _, _, err := renderer.Render("no_such_template", nil)
	assert.Error(t, err)
}

func TestTemplateRenderer_HTMLEscaping(t *testing.T) {
	renderer := NewTemplateRenderer()
	_, htmlBody, textBody, err := renderer.Render("booking_confirmation", &domain.BookingConfirmationEmailData{
		Email:      "jane@example.com",
		EventTitle: "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.NotContains(t, htmlBody, "<script>")
	assert.Contains(t, textBody, "<script>alert(1)</script>")
}

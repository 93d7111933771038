package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-sync/internal/api/dto"
	apperrors "github.com/spec-kit/helpdesk-sync/pkg/util/errorutil"
)

// writeResult renders an operator write. Writes that never changed local
// state fail through the error middleware; writes applied locally but not
// accepted upstream answer 202 with a warning.
func writeResult(c *fiber.Ctx, result apperrors.Result) error {
	if result.Err != nil && !result.Applied {
		return result.Err
	}
	resp := dto.WriteResponse{Applied: result.Applied, Synced: result.Synced}
	if result.Err != nil {
		resp.Warning = apperrors.ToDomainError(result.Err).Message
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": resp})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

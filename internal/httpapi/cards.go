package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/modulo/internal/reminder"
	"github.com/mesh-intelligence/modulo/pkg/types"
)

type moveCardRequest struct {
	FromColumnID string `json:"fromColumnId"`
	ToColumnID   string `json:"toColumnId"`
	TargetIndex  int    `json:"targetIndex"`
}

type setCardTagsRequest struct {
	TagIDs []string `json:"tagIds"`
}

func listCards(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		cards, err := store.ListCards(c.Request().Context(), c.Param("boardID"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, cards)
	}
}

func getCard(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		card, err := store.GetCard(c.Request().Context(), c.Param("cardID"))
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, card)
	}
}

func createCard(store types.Store, reminders *reminder.Scheduler, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params types.CreateCardParams
		if err := decodeBody(c, &params); err != nil {
			return fail(c, logger, err)
		}
		params.BoardID = c.Param("boardID")
		card, err := store.CreateCard(c.Request().Context(), params)
		if err != nil {
			return fail(c, logger, err)
		}
		syncReminder(reminders, logger, card)
		return c.JSON(http.StatusCreated, card)
	}
}

func updateCard(store types.Store, reminders *reminder.Scheduler, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var patch types.CardPatch
		if err := decodeBody(c, &patch); err != nil {
			return fail(c, logger, err)
		}
		card, err := store.UpdateCard(c.Request().Context(), c.Param("cardID"), c.Param("boardID"), patch)
		if err != nil {
			return fail(c, logger, err)
		}
		syncReminder(reminders, logger, card)
		return c.JSON(http.StatusOK, card)
	}
}

func deleteCard(store types.Store, reminders *reminder.Scheduler, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("cardID")
		if err := store.DeleteCard(c.Request().Context(), id, c.Param("boardID")); err != nil {
			return fail(c, logger, err)
		}
		if reminders != nil {
			reminders.Cancel(id)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func moveCard(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req moveCardRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, logger, err)
		}
		err := store.MoveCard(c.Request().Context(), c.Param("cardID"), c.Param("boardID"),
			req.FromColumnID, req.ToColumnID, req.TargetIndex)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func setCardTags(store types.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req setCardTagsRequest
		if err := decodeBody(c, &req); err != nil {
			return fail(c, logger, err)
		}
		tags, err := store.SetCardTags(c.Request().Context(), c.Param("cardID"), c.Param("boardID"), req.TagIDs)
		if err != nil {
			return fail(c, logger, err)
		}
		return c.JSON(http.StatusOK, tags)
	}
}

// syncReminder reconciles the card's timer after a successful write.
// Archiving cancels; an unset or cleared remind_at cancels; anything else
// (re)schedules. Failures only log: the card mutation already committed.
func syncReminder(reminders *reminder.Scheduler, logger *log.Logger, card *types.Card) {
	if reminders == nil {
		return
	}
	if card.ArchivedAt != nil {
		reminders.Cancel(card.ID)
		return
	}
	if err := reminders.Sync(card.ID, card.RemindAt); err != nil {
		logger.WithError(err).WithField("card_id", card.ID).Warn("could not schedule reminder")
	}
}

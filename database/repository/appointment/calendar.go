package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunInCalendar opens a multi-document transaction and first bumps the calendar document for
// (resourceID, date). Two units on the same calendar therefore write the same document, so the
// later one hits a write conflict and the driver retries it from the top, re-reading intervals.
func (r *MongoAppointmentRepo) RunInCalendar(
	ctx context.Context,
	resourceID, date string,
	fn func(ctx context.Context, tx CalendarTx) error,
) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		_, err := r.calendarColl.UpdateOne(sc,
			bson.M{"resourceId": resourceID, "date": date},
			bson.M{
				"$inc": bson.M{"version": 1},
				"$set": bson.M{"updatedAt": time.Now()},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to lock calendar %s/%s: %w", resourceID, date, err)
		}
		return nil, fn(sc, &mongoCalendarTx{repo: r, resourceID: resourceID, date: date})
	})
	return err
}

type mongoCalendarTx struct {
	repo       *MongoAppointmentRepo
	resourceID string
	date       string
}

func (tx *mongoCalendarTx) BookedIntervals(ctx context.Context) ([]models.BookedInterval, error) {
	return tx.repo.findIntervals(ctx, occupyingFilter(tx.resourceID, tx.date))
}

func (tx *mongoCalendarTx) checkCalendar(appt *models.Appointment) error {
	if appt.ResourceID != tx.resourceID || appt.Date != tx.date {
		return fmt.Errorf("appointment %s belongs to %s/%s, not calendar %s/%s",
			appt.ID, appt.ResourceID, appt.Date, tx.resourceID, tx.date)
	}
	return nil
}

func (tx *mongoCalendarTx) Insert(ctx context.Context, appt *models.Appointment) error {
	if err := tx.checkCalendar(appt); err != nil {
		return err
	}
	if _, err := tx.repo.apptColl.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("insert appointment failed: %w", err)
	}
	return nil
}

func (tx *mongoCalendarTx) Move(ctx context.Context, appt *models.Appointment, expectedVersion int) error {
	if err := tx.checkCalendar(appt); err != nil {
		return err
	}
	appt.Version = expectedVersion + 1
	res, err := tx.repo.apptColl.ReplaceOne(ctx, bson.M{"id": appt.ID, "version": expectedVersion}, appt)
	if err != nil {
		appt.Version = expectedVersion
		return fmt.Errorf("move appointment failed: %w", err)
	}
	if res.MatchedCount == 0 {
		appt.Version = expectedVersion
		return ErrVersionConflict
	}
	return nil
}

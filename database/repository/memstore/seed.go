package memstore

import (
	"fmt"

	"salonbook/models"
	"salonbook/utils"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// seedFile is the on-disk shape of a memory store seed. Times of day are "HH:MM".
type seedFile struct {
	Resources []struct {
		ID      string `mapstructure:"id"`
		SalonID string `mapstructure:"salonId"`
		Name    string `mapstructure:"name"`
		Kind    string `mapstructure:"kind"`
	} `mapstructure:"resources"`
	WorkingWindows []struct {
		ResourceID string `mapstructure:"resourceId"`
		Days       []int  `mapstructure:"days"`
		Start      string `mapstructure:"start"`
		End        string `mapstructure:"end"`
		BreakStart string `mapstructure:"breakStart"`
		BreakEnd   string `mapstructure:"breakEnd"`
	} `mapstructure:"workingWindows"`
	BlockedTimes []struct {
		ID         string `mapstructure:"id"`
		ResourceID string `mapstructure:"resourceId"`
		Date       string `mapstructure:"date"`
		Start      string `mapstructure:"start"`
		End        string `mapstructure:"end"`
		Type       string `mapstructure:"type"`
		Reason     string `mapstructure:"reason"`
	} `mapstructure:"blockedTimes"`
	Services []struct {
		ID                  string `mapstructure:"id"`
		SalonID             string `mapstructure:"salonId"`
		Name                string `mapstructure:"name"`
		DurationMinutes     int    `mapstructure:"durationMinutes"`
		Price               string `mapstructure:"price"`
		SlotIntervalMinutes int    `mapstructure:"slotIntervalMinutes"`
	} `mapstructure:"services"`
}

// LoadSeed reads resources, working windows, blocked times and services from a YAML or JSON file.
func (s *Store) LoadSeed(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed seedFile
	if err := v.Unmarshal(&seed); err != nil {
		return fmt.Errorf("failed to decode seed file: %w", err)
	}

	for _, r := range seed.Resources {
		s.PutResource(models.Resource{ID: r.ID, SalonID: r.SalonID, Name: r.Name, Kind: r.Kind, Active: true})
	}
	for _, w := range seed.WorkingWindows {
		start, err := utils.ParseClock(w.Start)
		if err != nil {
			return fmt.Errorf("resource %s: %w", w.ResourceID, err)
		}
		end, err := utils.ParseClock(w.End)
		if err != nil {
			return fmt.Errorf("resource %s: %w", w.ResourceID, err)
		}
		window := models.WorkingWindow{ResourceID: w.ResourceID, Start: start, End: end}
		if w.BreakStart != "" || w.BreakEnd != "" {
			bs, err := utils.ParseClock(w.BreakStart)
			if err != nil {
				return fmt.Errorf("resource %s break: %w", w.ResourceID, err)
			}
			be, err := utils.ParseClock(w.BreakEnd)
			if err != nil {
				return fmt.Errorf("resource %s break: %w", w.ResourceID, err)
			}
			window.BreakStart, window.BreakEnd = &bs, &be
		}
		for _, day := range w.Days {
			window.DayOfWeek = day
			if err := s.PutWorkingWindow(window); err != nil {
				return fmt.Errorf("resource %s day %d: %w", w.ResourceID, day, err)
			}
		}
	}
	for _, b := range seed.BlockedTimes {
		start, err := utils.ParseClock(b.Start)
		if err != nil {
			return fmt.Errorf("blocked time %s: %w", b.ID, err)
		}
		end, err := utils.ParseClock(b.End)
		if err != nil {
			return fmt.Errorf("blocked time %s: %w", b.ID, err)
		}
		s.PutBlockedTime(models.BlockedTime{
			ID: b.ID, ResourceID: b.ResourceID, Date: b.Date,
			Start: start, End: end, Type: models.BlockedType(b.Type), Reason: b.Reason,
		})
	}
	for _, svc := range seed.Services {
		price, err := decimal.NewFromString(svc.Price)
		if err != nil {
			return fmt.Errorf("service %s price: %w", svc.ID, err)
		}
		s.PutService(models.Service{
			ID:                  svc.ID,
			SalonID:             svc.SalonID,
			Name:                svc.Name,
			DurationMinutes:     svc.DurationMinutes,
			Price:               models.MoneyFromDecimal(price),
			SlotIntervalMinutes: svc.SlotIntervalMinutes,
			Active:              true,
		})
	}
	return nil
}

package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nocfacilities/plantao-calendar/internal/activity"
)

// Edit-mode persistence. Changes go to a tmp file next to the month file
// and only replace it on commit; revert discards the tmp file. The in-memory
// set is rebuilt wholesale after every change.

// AddVendor appends a vendor activity to a date of the given month and
// saves the change to the month's tmp file.
func (s *Store) AddVendor(ctx context.Context, month time.Month, date string, v activity.RawVendor) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	s.mu.Lock()
	days := s.readMonth(month)

	idx := -1
	for i := range days {
		if days[i].Date == date {
			idx = i
			break
		}
	}
	if idx == -1 {
		days = append(days, activity.RawDay{Date: date})
		idx = len(days) - 1
		sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
		for i := range days {
			if days[i].Date == date {
				idx = i
				break
			}
		}
	}

	for _, existing := range days[idx].Vendors {
		if existing.Company == v.Company && existing.Description == v.Description {
			s.mu.Unlock()
			return fmt.Errorf("activity already exists for %s", date)
		}
	}
	days[idx].Vendors = append(days[idx].Vendors, v)

	err := writeJSON(s.monthPath(month)+TmpSuffix, days)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.reloadIfCurrent(ctx, month)
}

// DeleteVendor removes the vendor activities matching (date, company,
// description) from the given month and saves the change to the tmp file.
func (s *Store) DeleteVendor(ctx context.Context, month time.Month, date, company, description string) error {
	s.mu.Lock()
	days := s.readMonth(month)

	removed := false
	for i := range days {
		if days[i].Date != date {
			continue
		}
		kept := days[i].Vendors[:0]
		for _, v := range days[i].Vendors {
			if v.Company == company && v.Description == description {
				removed = true
				continue
			}
			kept = append(kept, v)
		}
		days[i].Vendors = kept
	}
	if !removed {
		s.mu.Unlock()
		return fmt.Errorf("activity not found for %s", date)
	}

	err := writeJSON(s.monthPath(month)+TmpSuffix, days)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.reloadIfCurrent(ctx, month)
}

func (s *Store) reloadIfCurrent(ctx context.Context, month time.Month) error {
	year, current := s.Current()
	if year != 0 && current == month {
		return s.LoadMonth(ctx, year, month)
	}
	return nil
}

// HasTmpChanges reports whether any month has uncommitted changes.
func (s *Store) HasTmpChanges() bool {
	for m := time.January; m <= time.December; m++ {
		if _, err := os.Stat(s.monthPath(m) + TmpSuffix); err == nil {
			return true
		}
	}
	return false
}

// Commit makes every tmp file the new month file, moving the previous
// version into the backup directory with a timestamped name.
func (s *Store) Commit(ctx context.Context) error {
	backupDir := filepath.Join(s.dir, BackupDir)
	committed := 0

	for m := time.January; m <= time.December; m++ {
		path := s.monthPath(m)
		tmp := path + TmpSuffix
		if _, err := os.Stat(tmp); os.IsNotExist(err) {
			continue
		}

		if err := os.MkdirAll(backupDir, 0755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
		if _, err := os.Stat(path); err == nil {
			backup := filepath.Join(backupDir,
				fmt.Sprintf("%d_%s%s", time.Now().Unix(), filepath.Base(path), BackupSuffix))
			if err := os.Rename(path, backup); err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}
			s.log.Infow("backup created", "file", backup)
		}
		if err := os.Rename(tmp, path); err != nil {
			return fmt.Errorf("failed to commit changes: %w", err)
		}
		committed++
	}

	if committed == 0 {
		return fmt.Errorf("no temporary changes to commit")
	}
	s.log.Infow("changes committed", "months", committed)
	return s.Reload(ctx)
}

// Revert discards all tmp files and reloads from the committed data.
func (s *Store) Revert(ctx context.Context) error {
	reverted := 0
	for m := time.January; m <= time.December; m++ {
		tmp := s.monthPath(m) + TmpSuffix
		if _, err := os.Stat(tmp); os.IsNotExist(err) {
			continue
		}
		if err := os.Remove(tmp); err != nil {
			return fmt.Errorf("failed to remove tmp file: %w", err)
		}
		reverted++
	}

	if reverted == 0 {
		return fmt.Errorf("no temporary changes to revert")
	}
	s.log.Infow("changes reverted", "months", reverted)
	return s.Reload(ctx)
}

package rankstore

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"starboard-backend/lib/scrapers/aoc"
)

func encodeCsv(ds aoc.Dataset) ([]byte, error) {
	days := ds.DayCount()

	header := make([]string, 0, days+8)
	header = append(header, "login", "campus", "streak", "points")
	for d := 1; d <= days; d++ {
		header = append(header, fmt.Sprintf("day_%d", d))
	}
	header = append(header, "completed_days", "gold_stars", "silver_stars", "total_stars")

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := w.Write(header)
	if err != nil {
		return nil, err
	}

	for _, r := range ds {
		row := make([]string, 0, len(header))
		row = append(row,
			r.Login,
			r.Campus,
			strconv.Itoa(r.Streak),
			strconv.FormatFloat(r.Points, 'f', -1, 64),
		)
		for _, stars := range r.Days {
			row = append(row, strconv.Itoa(stars))
		}
		row = append(row,
			strconv.Itoa(r.CompletedDays),
			strconv.Itoa(r.GoldStars),
			strconv.Itoa(r.SilverStars),
			strconv.Itoa(r.TotalStars),
		)
		err := w.Write(row)
		if err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func decodeCsv(data []byte) (aoc.Dataset, error) {
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("snapshot csv has no header")
	}

	header := rows[0]
	if len(header) < 8 || header[0] != "login" {
		return nil, fmt.Errorf("unrecognized snapshot header")
	}
	days := len(header) - 8

	var ds aoc.Dataset
	for i, row := range rows[1:] {
		record, err := decodeRow(row, days)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		ds = append(ds, record)
	}
	return ds, nil
}

func decodeRow(row []string, days int) (aoc.ParticipantRecord, error) {
	record := aoc.ParticipantRecord{
		Login:  row[0],
		Campus: row[1],
	}

	var err error
	record.Streak, err = strconv.Atoi(row[2])
	if err != nil {
		return record, fmt.Errorf("streak: %w", err)
	}
	record.Points, err = strconv.ParseFloat(row[3], 64)
	if err != nil {
		return record, fmt.Errorf("points: %w", err)
	}

	record.Days = make([]int, days)
	for d := 0; d < days; d++ {
		record.Days[d], err = strconv.Atoi(row[4+d])
		if err != nil {
			return record, fmt.Errorf("day_%d: %w", d+1, err)
		}
	}

	record.CompletedDays, err = strconv.Atoi(row[4+days])
	if err != nil {
		return record, fmt.Errorf("completed_days: %w", err)
	}
	record.GoldStars, err = strconv.Atoi(row[5+days])
	if err != nil {
		return record, fmt.Errorf("gold_stars: %w", err)
	}
	record.SilverStars, err = strconv.Atoi(row[6+days])
	if err != nil {
		return record, fmt.Errorf("silver_stars: %w", err)
	}
	record.TotalStars, err = strconv.Atoi(row[7+days])
	if err != nil {
		return record, fmt.Errorf("total_stars: %w", err)
	}

	return record, nil
}

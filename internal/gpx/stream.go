package gpx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kerlouan/fitbridge/internal/models"
)

// Both parse modes are a single forward pass over the XML token stream
// with O(1) scratch state. Export bundles can hold thousands of
// multi-megabyte tracks, so no document tree is ever materialized.

// TrackDuration scans a track file and returns max-min over all parseable
// <time> values, or nil when fewer than two distinct instants were found.
// Malformed XML downgrades to nil rather than failing the batch; only a
// read failure is an error.
func TrackDuration(path string) (*time.Duration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading track %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))

	var minT, maxT time.Time
	inTime := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed tracks are common in the wild; treat as unknown.
			return nil, nil
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "time" {
				inTime = true
			}
		case xml.EndElement:
			if t.Name.Local == "time" {
				inTime = false
			}
		case xml.CharData:
			if !inTime {
				continue
			}
			ts, err := time.Parse(time.RFC3339, strings.TrimSpace(string(t)))
			if err != nil {
				continue
			}
			ts = ts.UTC()
			if minT.IsZero() || ts.Before(minT) {
				minT = ts
			}
			if maxT.IsZero() || ts.After(maxT) {
				maxT = ts
			}
		}
	}

	if minT.IsZero() || !maxT.After(minT) {
		return nil, nil
	}
	d := maxT.Sub(minT)
	return &d, nil
}

// scanState is the point-mode scanner position within the document.
type scanState int

const (
	stateOutside scanState = iota
	stateInPoint
	stateInPointTime
	stateInPointEle
)

// pointScratch accumulates one trkpt's fields until its end tag.
type pointScratch struct {
	lat, lon *float64
	time     *time.Time
	ele      *float64
}

// ParsePoints scans a track file and returns every complete trkpt as a
// GeoPoint, indexed 0..n-1 in file order. A point is complete when
// latitude, longitude and time were all captured; elevation is optional.
// An empty file yields an empty slice.
func ParsePoints(path string) ([]models.GeoPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading track %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		out     []models.GeoPoint
		state   = stateOutside
		scratch pointScratch
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("track %s: %w", path, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "trkpt":
				state = stateInPoint
				scratch = pointScratch{}
				scratch.lat, scratch.lon = pointLatLon(t)
			case t.Name.Local == "time" && state == stateInPoint:
				state = stateInPointTime
			case t.Name.Local == "ele" && state == stateInPoint:
				state = stateInPointEle
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "time":
				if state == stateInPointTime {
					state = stateInPoint
				}
			case "ele":
				if state == stateInPointEle {
					state = stateInPoint
				}
			case "trkpt":
				if state != stateOutside {
					state = stateOutside
					if scratch.lat != nil && scratch.lon != nil && scratch.time != nil {
						out = append(out, models.GeoPoint{
							Index:     len(out),
							Time:      *scratch.time,
							Lat:       *scratch.lat,
							Lon:       *scratch.lon,
							Elevation: scratch.ele,
						})
					}
				}
			}

		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			switch state {
			case stateInPointTime:
				if ts, err := time.Parse(time.RFC3339, text); err == nil {
					utc := ts.UTC()
					scratch.time = &utc
				}
			case stateInPointEle:
				if v, err := strconv.ParseFloat(text, 64); err == nil {
					scratch.ele = &v
				}
			}
		}
	}

	return out, nil
}

func pointLatLon(e xml.StartElement) (lat, lon *float64) {
	for _, a := range e.Attr {
		v, err := strconv.ParseFloat(a.Value, 64)
		if err != nil {
			continue
		}
		switch a.Name.Local {
		case "lat":
			lat = &v
		case "lon":
			lon = &v
		}
	}
	return lat, lon
}

package blueprint

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errEmptyPoints = errors.New("points array is empty")

// encodePoints renders points as the JSON array stored in the points column.
func encodePoints(points []Point) (string, error) {
	data, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("%w: encoding points: %w", ErrStorageFailure, err)
	}
	return string(data), nil
}

// encodePoint renders a single point as a JSON object.
func encodePoint(p Point) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: encoding point: %w", ErrStorageFailure, err)
	}
	return string(data), nil
}

// decodePoints parses a stored points column. A value that is not a
// non-empty array of {x,y} objects is rejected.
func decodePoints(raw []byte) ([]Point, error) {
	var points []Point
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, fmt.Errorf("decoding points: %w", err)
	}
	if len(points) == 0 {
		return nil, errEmptyPoints
	}
	return points, nil
}

package attendance

import (
	"math"
	"testing"
)

func TestHaversineSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{13.736717, 100.523186, 13.745, 100.534},
		{0, 0, 10, 10},
		{51.5007, -0.1246, 48.8584, 2.2945},
	}

	for _, p := range pairs {
		ab := Haversine(p[0], p[1], p[2], p[3])
		ba := Haversine(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-6 {
			t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestVerifyLocationAtReference(t *testing.T) {
	ok, distance := VerifyLocation(CampusLatitude, CampusLongitude)
	if !ok {
		t.Fatalf("reference point must always pass")
	}
	if distance != 0 {
		t.Fatalf("distance at reference = %f, want 0", distance)
	}
}

func TestVerifyLocationRejectsOutsideRadius(t *testing.T) {
	// Roughly 1000 m north of campus (1 degree latitude ~ 111.19 km).
	lat := CampusLatitude + 1000.0/111190.0
	ok, distance := VerifyLocation(lat, CampusLongitude)
	if ok {
		t.Fatalf("expected rejection at ~1000 m with a 300 m radius")
	}
	if distance < 950 || distance > 1050 {
		t.Fatalf("distance = %f, want ~1000", distance)
	}
}

func TestVerifyLocationInsideRadius(t *testing.T) {
	// ~100 m north of campus.
	lat := CampusLatitude + 100.0/111190.0
	ok, distance := VerifyLocation(lat, CampusLongitude)
	if !ok {
		t.Fatalf("expected pass at ~100 m, got rejection (distance=%f)", distance)
	}
}

func TestVerifyOptionalLocationOnline(t *testing.T) {
	check, err := VerifyOptionalLocation(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Provided {
		t.Fatalf("absent coordinates must read as an online check-in")
	}
}

func TestVerifyOptionalLocationPartialPair(t *testing.T) {
	lat := CampusLatitude
	if _, err := VerifyOptionalLocation(&lat, nil); err != ErrPartialCoordinates {
		t.Fatalf("expected ErrPartialCoordinates, got %v", err)
	}
	lng := CampusLongitude
	if _, err := VerifyOptionalLocation(nil, &lng); err != ErrPartialCoordinates {
		t.Fatalf("expected ErrPartialCoordinates, got %v", err)
	}
}

// A rejection still carries the computed distance so the caller can
// tell the user how far off they were.
func TestVerifyOptionalLocationOutsideReportsDistance(t *testing.T) {
	lat := CampusLatitude + 1000.0/111190.0
	lng := CampusLongitude
	check, err := VerifyOptionalLocation(&lat, &lng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.Provided || check.Verified {
		t.Fatalf("expected a provided-but-rejected check, got %+v", check)
	}
	if check.Distance < 950 || check.Distance > 1050 {
		t.Fatalf("distance = %f, want ~1000", check.Distance)
	}
}

func TestVerifyOptionalLocationInside(t *testing.T) {
	lat := CampusLatitude + 100.0/111190.0
	lng := CampusLongitude
	check, err := VerifyOptionalLocation(&lat, &lng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.Provided || !check.Verified {
		t.Fatalf("expected a verified check at ~100 m, got %+v", check)
	}
}

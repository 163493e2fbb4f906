package adsb

import "math"

// NL is the number of longitude zones at the given latitude: a monotone
// step function defined by the 59-entry table of spec.md section 6.
// NL(0) == 59, NL(+-87) == 2, NL beyond the table == 1.
func NL(lat float64) int {
	absLat := math.Abs(lat)

	switch {
	case absLat < 10.47047130:
		return 59
	case absLat < 14.82817437:
		return 58
	case absLat < 18.18626357:
		return 57
	case absLat < 21.02939493:
		return 56
	case absLat < 23.54504487:
		return 55
	case absLat < 25.82924707:
		return 54
	case absLat < 27.93898710:
		return 53
	case absLat < 29.91135686:
		return 52
	case absLat < 31.77209708:
		return 51
	case absLat < 33.53993436:
		return 50
	case absLat < 35.22899598:
		return 49
	case absLat < 36.85025108:
		return 48
	case absLat < 38.41241892:
		return 47
	case absLat < 39.92256684:
		return 46
	case absLat < 41.38651832:
		return 45
	case absLat < 42.80914012:
		return 44
	case absLat < 44.19454951:
		return 43
	case absLat < 45.54626723:
		return 42
	case absLat < 46.86733252:
		return 41
	case absLat < 48.16039128:
		return 40
	case absLat < 49.42776439:
		return 39
	case absLat < 50.67150166:
		return 38
	case absLat < 51.89342469:
		return 37
	case absLat < 53.09516153:
		return 36
	case absLat < 54.27817472:
		return 35
	case absLat < 55.44378444:
		return 34
	case absLat < 56.59318756:
		return 33
	case absLat < 57.72747354:
		return 32
	case absLat < 58.84763776:
		return 31
	case absLat < 59.95459277:
		return 30
	case absLat < 61.04917774:
		return 29
	case absLat < 62.13216659:
		return 28
	case absLat < 63.20427479:
		return 27
	case absLat < 64.26616523:
		return 26
	case absLat < 65.31845310:
		return 25
	case absLat < 66.36171008:
		return 24
	case absLat < 67.39646774:
		return 23
	case absLat < 68.42322022:
		return 22
	case absLat < 69.44242631:
		return 21
	case absLat < 70.45451075:
		return 20
	case absLat < 71.45986473:
		return 19
	case absLat < 72.45884545:
		return 18
	case absLat < 73.45177442:
		return 17
	case absLat < 74.43893416:
		return 16
	case absLat < 75.42056257:
		return 15
	case absLat < 76.39684391:
		return 14
	case absLat < 77.36789461:
		return 13
	case absLat < 78.33374083:
		return 12
	case absLat < 79.29428225:
		return 11
	case absLat < 80.24923213:
		return 10
	case absLat < 81.19801349:
		return 9
	case absLat < 82.13956981:
		return 8
	case absLat < 83.07199445:
		return 7
	case absLat < 83.99173563:
		return 6
	case absLat < 84.89166191:
		return 5
	case absLat < 85.75541621:
		return 4
	case absLat < 86.53536998:
		return 3
	case absLat <= 87.00000000:
		return 2
	default:
		return 1
	}
}

func modInt(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// modFloat is the non-negative floating-point remainder used by the local
// CPR decode's zone-index calculation (spec.md section 4.6).
func modFloat(a, b float64) float64 {
	return a - b*math.Floor(a/b)
}

// nFunction returns the number of longitude zones in effect for a frame at
// the given latitude and parity (fflag 0 = even, 1 = odd), never below 1.
func nFunction(lat float64, fflag int) int {
	n := NL(lat) - fflag
	if n < 1 {
		n = 1
	}
	return n
}

// DecodeGlobalCPR combines one even-parity and one odd-parity CPR frame into
// a latitude/longitude, per spec.md section 4.6. oddIsLater indicates which
// frame arrived more recently (the "later" frame's latitude and NL are used
// for the longitude basis); refLat supplies the surface-mode quadrant offset.
// Returns ok=false on ambiguity (spec.md: "do NOT invent a position").
func DecodeGlobalCPR(even, odd CPRFrame, oddIsLater, onGround bool, refLat float64) (lat, lon float64, ok bool) {
	dEven := 360.0 / 60.0
	dOdd := 360.0 / 59.0
	if onGround {
		dEven = 90.0 / 60.0
		dOdd = 90.0 / 59.0
	}

	lat0 := float64(even.LatCPR)
	lat1 := float64(odd.LatCPR)
	lon0 := float64(even.LonCPR)
	lon1 := float64(odd.LonCPR)

	j := int(math.Floor(((59*lat0 - 60*lat1) / CPRMax) + 0.5))

	rlat0 := dEven * (float64(modInt(j, 60)) + lat0/CPRMax)
	rlat1 := dOdd * (float64(modInt(j, 59)) + lat1/CPRMax)

	if onGround {
		offset := math.Floor(refLat/90) * 90
		rlat0 += offset
		rlat1 += offset
	} else {
		if rlat0 >= 270 {
			rlat0 -= 360
		}
		if rlat1 >= 270 {
			rlat1 -= 360
		}
	}

	if rlat0 < -90 || rlat0 > 90 || rlat1 < -90 || rlat1 > 90 {
		return 0, 0, false
	}
	if NL(rlat0) != NL(rlat1) {
		return 0, 0, false
	}

	var rlat float64
	var ni int
	var dlon float64
	var m int

	if oddIsLater {
		rlat = rlat1
		ni = nFunction(rlat1, 1)
		m = int(math.Floor((((lon0 * float64(NL(rlat1)-1)) - (lon1 * float64(NL(rlat1)))) / CPRMax) + 0.5))
		dlon = 360.0 / float64(ni)
		lon = dlon * (float64(modInt(m, ni)) + lon1/CPRMax)
	} else {
		rlat = rlat0
		ni = nFunction(rlat0, 0)
		m = int(math.Floor((((lon0 * float64(NL(rlat0)-1)) - (lon1 * float64(NL(rlat0)))) / CPRMax) + 0.5))
		dlon = 360.0 / float64(ni)
		lon = dlon * (float64(modInt(m, ni)) + lon0/CPRMax)
	}

	lon -= math.Floor((lon+180)/360) * 360

	return rlat, lon, true
}

// DecodeLocalCPR decodes a single CPR frame against a known reference
// position, per spec.md section 4.6. fflag is 0 for an even frame, 1 for odd.
func DecodeLocalCPR(frame CPRFrame, fflag uint8, refLat, refLon float64, onGround bool) (lat, lon float64, ok bool) {
	d := 360.0 / 60.0
	if fflag == 1 {
		d = 360.0 / 59.0
	}
	if onGround {
		d /= 4.0
	}

	latCPR := float64(frame.LatCPR)
	lonCPR := float64(frame.LonCPR)

	j := math.Floor(refLat/d) + math.Floor(0.5+modFloat(refLat, d)/d-latCPR/CPRMax)
	rlat := d * (j + latCPR/CPRMax)

	if math.Abs(rlat-refLat) > d/2 {
		return 0, 0, false
	}

	ni := nFunction(rlat, int(fflag))
	dlon := 360.0 / float64(ni)
	if onGround {
		dlon = 90.0 / float64(ni)
	}

	m := math.Floor(refLon/dlon) + math.Floor(0.5+modFloat(refLon, dlon)/dlon-lonCPR/CPRMax)
	rlon := dlon * (m + lonCPR/CPRMax)

	rlon -= math.Floor((rlon+180)/360) * 360

	return rlat, rlon, true
}

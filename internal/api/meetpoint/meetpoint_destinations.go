package meetpoint

import (
	"sort"

	"github.com/datewise/go-date-night-suggestions/internal/geo"
	"github.com/datewise/go-date-night-suggestions/internal/types"
)

// destinationTable is the long-distance fallback: regional hub cities worth
// meeting in when the two sides live too far apart for a same-day date.
var destinationTable = []types.DestinationSuggestion{
	{City: "Austin", Region: "TX", Description: "Live music, food trucks and lake trails", Location: geo.GeoPoint{Latitude: 30.2672, Longitude: -97.7431}},
	{City: "Nashville", Region: "TN", Description: "Honky-tonks, hot chicken and walkable downtown", Location: geo.GeoPoint{Latitude: 36.1627, Longitude: -86.7816}},
	{City: "Chicago", Region: "IL", Description: "Lakefront, museums and deep dish", Location: geo.GeoPoint{Latitude: 41.8781, Longitude: -87.6298}},
	{City: "Denver", Region: "CO", Description: "Mountain day trips and a huge brewery scene", Location: geo.GeoPoint{Latitude: 39.7392, Longitude: -104.9903}},
	{City: "New Orleans", Region: "LA", Description: "French Quarter, jazz and beignets", Location: geo.GeoPoint{Latitude: 29.9511, Longitude: -90.0715}},
	{City: "Kansas City", Region: "MO", Description: "Barbecue capital with a compact downtown", Location: geo.GeoPoint{Latitude: 39.0997, Longitude: -94.5786}},
	{City: "Santa Fe", Region: "NM", Description: "Galleries, adobe old town and high-desert views", Location: geo.GeoPoint{Latitude: 35.687, Longitude: -105.9378}},
	{City: "Asheville", Region: "NC", Description: "Blue Ridge hikes and a cozy arts district", Location: geo.GeoPoint{Latitude: 35.5951, Longitude: -82.5515}},
	{City: "Savannah", Region: "GA", Description: "Oak-lined squares and riverfront strolls", Location: geo.GeoPoint{Latitude: 32.0809, Longitude: -81.0912}},
	{City: "Charleston", Region: "SC", Description: "Historic harbor, porches and seafood", Location: geo.GeoPoint{Latitude: 32.7765, Longitude: -79.9311}},
	{City: "Portland", Region: "OR", Description: "Coffee, books and gorge waterfalls nearby", Location: geo.GeoPoint{Latitude: 45.5152, Longitude: -122.6784}},
	{City: "Salt Lake City", Region: "UT", Description: "Gateway to five national parks", Location: geo.GeoPoint{Latitude: 40.7608, Longitude: -111.891}},
	{City: "Minneapolis", Region: "MN", Description: "Lakes in the city and a strong theater scene", Location: geo.GeoPoint{Latitude: 44.9778, Longitude: -93.265}},
	{City: "Las Vegas", Region: "NV", Description: "Shows, restaurants and Red Rock Canyon", Location: geo.GeoPoint{Latitude: 36.1699, Longitude: -115.1398}},
	{City: "Memphis", Region: "TN", Description: "Beale Street blues and riverside parks", Location: geo.GeoPoint{Latitude: 35.1495, Longitude: -90.049}},
	{City: "San Antonio", Region: "TX", Description: "River Walk dinners and missions by bike", Location: geo.GeoPoint{Latitude: 29.4241, Longitude: -98.4936}},
	{City: "St. Louis", Region: "MO", Description: "Free museums, the Arch and Forest Park", Location: geo.GeoPoint{Latitude: 38.627, Longitude: -90.1994}},
	{City: "Pittsburgh", Region: "PA", Description: "Three rivers, inclines and museum row", Location: geo.GeoPoint{Latitude: 40.4406, Longitude: -79.9959}},
	{City: "Washington", Region: "DC", Description: "Monuments, free Smithsonians and rooftop bars", Location: geo.GeoPoint{Latitude: 38.9072, Longitude: -77.0369}},
	{City: "Phoenix", Region: "AZ", Description: "Desert hikes and resort pools", Location: geo.GeoPoint{Latitude: 33.4484, Longitude: -112.074}},
}

// nearestDestinations returns the n hub cities closest to the center.
func nearestDestinations(center geo.GeoPoint, n int) []types.DestinationSuggestion {
	ranked := make([]types.DestinationSuggestion, len(destinationTable))
	copy(ranked, destinationTable)
	sort.Slice(ranked, func(i, j int) bool {
		return geo.Distance(center, ranked[i].Location) < geo.Distance(center, ranked[j].Location)
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

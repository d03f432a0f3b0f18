package amadeus

// flightOffer mirrors the subset of an Amadeus Flight Offers Search record the engine
// reads. Pointer fields are required by the normalizer and reported when absent.
type flightOffer struct {
	Type                   string            `json:"type"`
	ID                     string            `json:"id"`
	Source                 string            `json:"source"`
	Itineraries            []itinerary       `json:"itineraries"`
	Price                  *price            `json:"price"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes"`
	TravelerPricings       []travelerPricing `json:"travelerPricings"`
}

type itinerary struct {
	Duration string    `json:"duration"`
	Segments []segment `json:"segments"`
}

type segment struct {
	ID            string    `json:"id"`
	Departure     *endpoint `json:"departure"`
	Arrival       *endpoint `json:"arrival"`
	CarrierCode   string    `json:"carrierCode"`
	Number        string    `json:"number"`
	Duration      string    `json:"duration"`
	NumberOfStops *int      `json:"numberOfStops"`
}

type endpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal"`
	At       string `json:"at"`
}

type price struct {
	Currency           string              `json:"currency"`
	Total              string              `json:"total"`
	Base               string              `json:"base"`
	GrandTotal         string              `json:"grandTotal"`
	AdditionalServices []additionalService `json:"additionalServices"`
}

type additionalService struct {
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type travelerPricing struct {
	TravelerID           string       `json:"travelerId"`
	TravelerType         string       `json:"travelerType"`
	FareDetailsBySegment []fareDetail `json:"fareDetailsBySegment"`
}

type fareDetail struct {
	SegmentID           string        `json:"segmentId"`
	Cabin               string        `json:"cabin"`
	IncludedCheckedBags *bagAllowance `json:"includedCheckedBags"`
	IncludedCabinBags   *bagAllowance `json:"includedCabinBags"`
}

type bagAllowance struct {
	Quantity   int    `json:"quantity"`
	Weight     int    `json:"weight"`
	WeightUnit string `json:"weightUnit"`
}

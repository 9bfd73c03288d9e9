// Package recommender is a Go client for the assessment recommendation API.
//
//	c, _ := recommender.New("http://localhost:8000", recommender.WithAPIKey(key))
//	res, _ := c.Recommend(ctx, recommender.Request{
//	    Text:        "Java developer who collaborates with business teams",
//	    MaxDuration: 40,
//	    TestTypes:   []string{"Cognitive", "Personality"},
//	})
//	for _, a := range res.Recommendations {
//	    fmt.Println(a.Name, a.URL)
//	}
//
// Errors returned by the server are *APIError values; use errors.As to read
// the status code and detail, or errors.Is with ErrCatalogUnavailable,
// ErrValidation and ErrUnauthorized.
package recommender

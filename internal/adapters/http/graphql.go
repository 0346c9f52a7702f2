package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/traveltip/internal/core/domain"
	"github.com/samirrijal/traveltip/internal/core/usecases"
)

// buildSchema creates the read-only GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Geo",
		Fields: graphql.Fields{
			"lat":     &graphql.Field{Type: graphql.Float},
			"lng":     &graphql.Field{Type: graphql.Float},
			"address": &graphql.Field{Type: graphql.String},
		},
	})

	// Timestamps are epoch ms, which overflows GraphQL Int, so they are Float.
	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.String},
			"name": &graphql.Field{Type: graphql.String},
			"rate": &graphql.Field{Type: graphql.Int},
			"geo":  &graphql.Field{Type: geoType},
			"createdAt": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return float64(p.Source.(domain.Location).CreatedAt), nil
				},
			},
			"updatedAt": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return float64(p.Source.(domain.Location).UpdatedAt), nil
				},
			},
		},
	})

	bucketType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bucket",
		Fields: graphql.Fields{
			"key":   &graphql.Field{Type: graphql.String},
			"count": &graphql.Field{Type: graphql.Int},
		},
	})

	segmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PieSegment",
		Fields: graphql.Fields{
			"key":        &graphql.Field{Type: graphql.String},
			"count":      &graphql.Field{Type: graphql.Int},
			"percent":    &graphql.Field{Type: graphql.Float},
			"start":      &graphql.Field{Type: graphql.Float},
			"end":        &graphql.Field{Type: graphql.Float},
			"colorIndex": &graphql.Field{Type: graphql.Int},
			"color":      &graphql.Field{Type: graphql.String},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stats",
		Fields: graphql.Fields{
			"buckets": &graphql.Field{
				Type: graphql.NewList(bucketType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(usecases.StatsPanel).Distribution.Buckets, nil
				},
			},
			"total": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(usecases.StatsPanel).Distribution.Total, nil
				},
			},
			"segments": &graphql.Field{
				Type: graphql.NewList(segmentType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(usecases.StatsPanel).Segments, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"locations": &graphql.Field{
				Type:        graphql.NewList(locationType),
				Description: "Locations in the current view (session filter and sort applied)",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Query.View(p.Context)
				},
			},
			"location": &graphql.Field{
				Type:        locationType,
				Description: "Get a location by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Locations.Read(p.Context, id)
				},
			},
			"ratingStats": &graphql.Field{
				Type:        statsType,
				Description: "Location count per rating, highest first",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d, err := deps.Stats.ByRating(p.Context)
					if err != nil {
						return nil, err
					}
					return usecases.StatsPanel{Distribution: d, Segments: usecases.PieSegments(d)}, nil
				},
			},
			"recencyStats": &graphql.Field{
				Type:        statsType,
				Description: "Location count per creation recency",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					d, err := deps.Stats.ByRecency(p.Context)
					if err != nil {
						return nil, err
					}
					return usecases.StatsPanel{Distribution: d, Segments: usecases.PieSegments(d)}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}

// Package graphql exposes the influencer catalogue over a small GraphQL
// endpoint, for frontends that prefer shaped queries over the REST list.
package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/influex/app/services"
	"github.com/shashiranjanraj/influex/pkg/ctx"
	gql "github.com/shashiranjanraj/influex/pkg/graphql"
)

var influencerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Influencer",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.Int},
		"name":      &graphql.Field{Type: graphql.String},
		"username":  &graphql.Field{Type: graphql.String},
		"category":  &graphql.Field{Type: graphql.String},
		"bio":       &graphql.Field{Type: graphql.String},
		"avatarUrl": &graphql.Field{Type: graphql.String},
		"followers": &graphql.Field{Type: graphql.Int},
		"verified":  &graphql.Field{Type: graphql.Boolean},
	},
})

// NewSchema builds the query root over the influencer service.
func NewSchema(svc *services.InfluencerService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"influencers": &graphql.Field{
				Type: graphql.NewList(influencerType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					limit, _ := p.Args["limit"].(int)
					users, _, err := svc.List(category, 1, limit)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(users))
					for _, u := range users {
						out = append(out, map[string]interface{}{
							"id":        int(u.ID),
							"name":      u.Name,
							"username":  u.Username,
							"category":  u.Category,
							"bio":       u.Bio,
							"avatarUrl": u.AvatarURL,
							"followers": int(u.Followers),
							"verified":  u.Verified,
						})
					}
					return out, nil
				},
			},
			"influencer": &graphql.Field{
				Type: influencerType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					u, err := svc.Get(uint(id))
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"id":        int(u.ID),
						"name":      u.Name,
						"username":  u.Username,
						"category":  u.Category,
						"bio":       u.Bio,
						"avatarUrl": u.AvatarURL,
						"followers": int(u.Followers),
						"verified":  u.Verified,
					}, nil
				},
			},
		},
	})

	return gql.NewSchema(query)
}

// Handler executes POSTed GraphQL queries against the schema.
func Handler(schema graphql.Schema) ctx.HandlerFunc {
	return func(c *ctx.Context) {
		var body struct {
			Query     string                 `json:"query" validate:"required"`
			Variables map[string]interface{} `json:"variables"`
		}
		if !c.BindJSON(&body) {
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        c.Context(),
		})
		c.JSON(http.StatusOK, result)
	}
}

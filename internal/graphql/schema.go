// Package graphql exposes the account operations over a GraphQL surface
// equivalent to the REST one. Errors travel on the GraphQL error channel with
// {code, data} extensions.
package graphql

import (
	"context"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	apperrors "feedhub/internal/errors"
	"feedhub/internal/model"
	"feedhub/internal/service"
)

type contextKey int

const userIDContextKey contextKey = iota

// WithUserID attaches the authenticated user id to the resolver context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDContextKey, id)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDContextKey).(uuid.UUID)
	return id, ok
}

// resolverError adapts an application error to the GraphQL error channel.
type resolverError struct {
	err *apperrors.Error
}

func (e resolverError) Error() string {
	return apperrors.Response(e.err).Message
}

// Extensions implements gqlerrors.ExtendedError.
func (e resolverError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": apperrors.Code(e.err)}
	if len(e.err.Data) > 0 {
		ext["data"] = e.err.Data
	}
	return ext
}

func wrapError(err error) error {
	return resolverError{err: apperrors.Classify(err)}
}

func userPayload(user *model.User) map[string]interface{} {
	return map[string]interface{}{
		"id":     user.ID.String(),
		"email":  user.Email,
		"name":   user.Name,
		"status": user.Status,
	}
}

// NewSchema builds the GraphQL schema over the same services the REST
// handlers use.
func NewSchema(authService service.AuthService, userService service.UserService) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"status": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	authDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthData",
		Fields: graphql.Fields{
			"token":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"userId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	userInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authDataType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					email, _ := p.Args["email"].(string)
					password, _ := p.Args["password"].(string)
					token, user, err := authService.Login(p.Context, email, password)
					if err != nil {
						return nil, wrapError(err)
					}
					return map[string]interface{}{
						"token":  token,
						"userId": user.ID.String(),
					}, nil
				},
			},
			"user": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, ok := UserIDFromContext(p.Context)
					if !ok {
						return nil, wrapError(apperrors.Unauthenticated("not authenticated"))
					}
					user, err := userService.GetUser(p.Context, userID)
					if err != nil {
						return nil, wrapError(err)
					}
					return userPayload(user), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"userInput": &graphql.ArgumentConfig{Type: userInputType},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input, _ := p.Args["userInput"].(map[string]interface{})
					email, _ := input["email"].(string)
					name, _ := input["name"].(string)
					password, _ := input["password"].(string)
					user, err := authService.Signup(p.Context, email, name, password)
					if err != nil {
						return nil, wrapError(err)
					}
					return userPayload(user), nil
				},
			},
			"updateStatus": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					userID, ok := UserIDFromContext(p.Context)
					if !ok {
						return nil, wrapError(apperrors.Unauthenticated("not authenticated"))
					}
					status, _ := p.Args["status"].(string)
					if err := userService.UpdateStatus(p.Context, userID, status); err != nil {
						return nil, wrapError(err)
					}
					user, err := userService.GetUser(p.Context, userID)
					if err != nil {
						return nil, wrapError(err)
					}
					return userPayload(user), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

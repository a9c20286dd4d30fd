package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccbrown/graphqlservice/graphql/ast"
	"github.com/ccbrown/graphqlservice/graphql/parser"
)

func mustParse(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, errs := parser.ParseDocument([]byte(src))
	require.Empty(t, errs)
	return doc
}

const sampleSchema = `
scalar DateTime

enum Status {
	ACTIVE
	ARCHIVED
}

input CreateUserInput {
	name: String!
	nickname: String
}

interface Node {
	id: ID!
}

type User implements Node {
	id: ID!
	name: String!
	status: Status!
	createdAt: DateTime!
	friends(limit: Int): [User!]!
}

union SearchResult = User

type Mutation {
	createUser(input: CreateUserInput!): User!
}

type Query {
	node(id: ID!): Node
	search(term: String!): [SearchResult!]!
}

type Subscription {
	userUpdated(id: ID!): User!
}
`

func TestGenerate(t *testing.T) {
	doc := mustParse(t, sampleSchema)

	result, err := Generate(doc, "sample")
	require.NoError(t, err)

	assert.Contains(t, result.Declarations, "package sample")
	assert.Contains(t, result.Declarations, "type User struct")
	assert.Contains(t, result.Declarations, "func (o *User) GetFriends(ctx *schema.FieldContext, limit int) ([]interface{}, error)")
	assert.Contains(t, result.Declarations, "type CreateUserInput struct")
	assert.Contains(t, result.Declarations, "type Status string")

	assert.Contains(t, result.Definitions, "package sample")
	assert.Contains(t, result.Definitions, "var UserType = &schema.ObjectType{")
	assert.Contains(t, result.Definitions, "var CreateUserInputInputType = &schema.InputObjectType{")
	assert.Contains(t, result.Definitions, "func NewSampleSchema() (*schema.Schema, error) {")
	assert.Contains(t, result.Definitions, `"__schema": introspection.MetaFields["__schema"]`)
}

func TestGenerateInvalidSchema_BuiltinCollision(t *testing.T) {
	doc := mustParse(t, `
		type String {
			x: Int
		}

		type Query {
			x: Int
		}
	`)

	_, err := Generate(doc, "sample")
	require.Error(t, err)
	invalid, ok := err.(*InvalidSchema)
	require.True(t, ok)
	assert.Contains(t, invalid.Error(), "collides with a built-in type")
}

func TestGenerateInvalidSchema_DuplicateType(t *testing.T) {
	doc := mustParse(t, `
		type Foo {
			x: Int
		}

		type Foo {
			y: Int
		}

		type Query {
			foo: Foo
		}
	`)

	_, err := Generate(doc, "sample")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defined more than once")
}

func TestGenerateInvalidSchema_DanglingFieldType(t *testing.T) {
	doc := mustParse(t, `
		type Query {
			foo: Bogus
		}
	`)

	_, err := Generate(doc, "sample")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined type: Bogus")
}

func TestGenerateInvalidSchema_DanglingInterface(t *testing.T) {
	doc := mustParse(t, `
		type Query implements Node {
			id: ID!
		}
	`)

	_, err := Generate(doc, "sample")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "implements undefined interface Node")
}

func TestGenerateInvalidSchema_DanglingUnionMember(t *testing.T) {
	doc := mustParse(t, `
		union Result = Bogus

		type Query {
			result: Result
		}
	`)

	_, err := Generate(doc, "sample")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not an object type")
}

func TestGenerateInvalidSchema_NoQueryRoot(t *testing.T) {
	doc := mustParse(t, `
		type Foo {
			x: Int
		}
	`)

	_, err := Generate(doc, "sample")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no query root")
}

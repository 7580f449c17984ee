// Package docgate embeds the docgate document gateway in a Go program.
//
// It runs the same query parsing and document normalization as the HTTP
// API, directly against a MongoDB database:
//
//	client, _ := docgate.New(ctx, docgate.WithMongo("mongodb://localhost:27017", "shop"))
//	defer client.Close()
//
//	users := client.Documents("users")
//	res, _ := users.Insert(ctx, docgate.Document{{Key: "name", Value: "Ann"}})
//	doc, _ := users.Get(ctx, res.ObjectID.(string))
//
//	page, _ := users.List(ctx, docgate.Query{
//	    Where: `{"age":{"$gte":18}}`,
//	    Order: "-age,name",
//	    Count: true,
//	})
package docgate

// Package recordbook provides an embedded Go client for the recordbook
// citizen and criminal records service, backed by Valkey, Redis, SQLite or
// an in-process store.
//
// # Records
//
//	client, _ := recordbook.New(ctx, recordbook.WithSQLite("records.db"))
//	defer client.Close()
//	c, _ := client.Citizens().Add(ctx, recordbook.Citizen{
//	    Name: "John Doe", Age: 30, Address: "1 Elm", GovernmentID: "A1",
//	})
//
// # Search
//
//	hits, _ := client.Criminals().Search().
//	    Where(recordbook.FieldName, "john").
//	    Do(ctx)
//
// # Commands
//
//	res, _ := client.Commands().Send(ctx, "find criminal records for John")
//	fmt.Println(res.Module, len(res.Rows))
package recordbook

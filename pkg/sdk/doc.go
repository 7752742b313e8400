// Package coursesearch embeds the course search engine in a Go program.
//
// The client loads a catalog from a file, SQL database, Redis/Valkey or
// BadgerDB (or an in-memory list) and answers keyword searches filtered by
// subject code and Hub unit.
//
//	client, _ := coursesearch.New(ctx, coursesearch.WithFile("data/courses.yaml"))
//	defer client.Close()
//
//	res, _ := client.Search().
//	    Query("I want to learn about the Holocaust").
//	    HubUnits("HUB Historical Consciousness").
//	    Honed().
//	    Do(ctx)
//
// Broad mode keeps a course when any keyword occurs in its description;
// honed mode needs most keywords (70% by default, see WithThreshold).
package coursesearch

// Package dogreid embeds the dog re-identification matcher in a Go program.
//
// The client loads a prebuilt vector index with its per-photo metadata and
// answers "which known dog is this" for a query embedding or a photo.
//
// # From index files
//
//	client, _ := dogreid.New(ctx,
//	    dogreid.WithIndexFiles("data/dogs.flat", "data/dogs.parquet"),
//	    dogreid.WithONNXModel("models/resnet50.onnx"),
//	)
//	defer client.Close()
//	res, _ := client.MatchImage(ctx, jpegBytes)
//	if res.Status == dogreid.StatusOK {
//	    fmt.Println(res.Level, res.Top.PetID)
//	}
//
// # From vectors already in memory
//
//	client, _ := dogreid.New(ctx, dogreid.WithIndex(vectors, records))
//	res, _ := client.Match(ctx, queryVector)
package dogreid

// Package bfun serves response bodies whose length is only known after they were produced in full.
//
// # Overview
//
// A body is either a fixed byte string or the output of an [Encoder] that writes incrementally, in chunks of any
// size, to an io.Writer. Either way the body is assembled in a [Chain] first. Only once the chain is sealed into a
// [Body] does its [ContentLength] exist, and only a ContentLength can be passed to [Request.SendHeaders]. The
// Content-Length header therefore can never be sent before the body is complete.
//
// A minimal example:
//
//	mux := bfun.NewServeMux()
//	mux.HandleContent("/", bfun.NewStatic())
//	mux.HandleContent("/fun.png", bfun.Generated{Radius: 100, Encoder: arcpng.Encoder{}})
//	http.ListenAndServe(":8080", mux)
//
// # Assembly
//
// Memory for the body comes from an [Arena] that lives as long as the request. A [Sink] wraps a chain and an
// arena: every Write copies the chunk into the arena, appends it as a node and marks that node as the last one.
// [Sink.Close] seals the chain once the encoder returned:
//
//	var chain bfun.Chain
//	sink := bfun.NewSink(&chain, arena)
//	png.Encode(sink, img)
//	body, err := sink.Close()
//
// Static content skips the copy: its single node references the fixed bytes.
//
// # Handling
//
// The handler returned by [NewHandler] walks one request through these steps and stops at the first failure:
//
//  1. respond 405 unless the method is GET or HEAD
//  2. discard the request body
//  3. set the content type
//  4. produce the body, responding 500 on failure
//  5. send status 200 with the body's length; stop here for HEAD
//  6. send the body
//
// HEAD requests on generated content pay for the full encode, since that is the only way to learn the length.
//
// Failures become [*Error] values carrying a [Code]. [ToStd] converts those into a status code with an empty body
// when nothing was sent yet, and reports everything else to its [Logger].
//
// # Middleware
//
// [Middleware] wraps a [Handler]. Register it on the [ServeMux] with [ServeMux.Use] before the first Handle:
//
//	mux.Use(func(next bfun.Handler) bfun.Handler {
//	    return bfun.HandlerFunc(func(ctx context.Context, rq *bfun.Request) error {
//	        err := next.ServeFun(ctx, rq)
//	        log.Printf("%s %d %d", rq.Method, rq.Out.Status, rq.Out.ContentLength.Int64())
//	        return err
//	    })
//	})
package bfun

// Package gifprotocol provides the host side of the serial line protocol
// used to manage an embedded GIF player.
//
// The device stores animated GIFs under /gifs and accepts four requests:
// LIST, PLAY, DEL and a chunked UPLOAD2 transfer. Every request and every
// response is a single newline-terminated text line, except upload chunk
// payloads which are raw bytes announced by a "C <len>" header.
//
// # Basic Usage
//
// Open a byte stream (usually a serial port, see package serialport) and
// wrap it in a Client:
//
//	port, err := serialport.Open(serialport.DefaultConfig("/dev/ttyUSB0"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	client := gifprotocol.NewClient(port)
//
//	files, err := client.List(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range files {
//	    fmt.Println(f.Name, f.Size)
//	}
//
//	if err := client.Play(ctx, "nyan.gif"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Uploads
//
// Upload sends a file in chunks of at most 1024 bytes and waits for an
// acknowledgement after each one:
//
//	result, err := client.Upload(ctx, data, "my cat.gif", func(p gifprotocol.Progress) {
//	    fmt.Printf("Uploading... %d%%\n", p.Percent)
//	})
//
// The stored name is SanitizeName of the original ("my_cat.gif"). A refused
// header, a missing acknowledgement or a bad final status aborts the whole
// transfer; there is no resume.
//
// # Errors
//
// Timeouts wrap ErrTimeout, a closed stream is ErrStreamClosed, and any
// unexpected device answer is a *RejectedError (errors.Is(err, ErrRejected)).
// Operations refused before anything is written return *PreconditionError.
//
// # Thread Safety
//
// The Client type is safe for concurrent use from multiple goroutines.
// Exchanges are serialised; the device only ever sees one at a time.
package gifprotocol

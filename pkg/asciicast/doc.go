// Package asciicast reads and writes asciicast terminal recordings.
//
// Two format generations are understood. Version 1 is a single JSON
// document holding the header and a "stdout" list; it has to be read into
// memory before any event is available. Version 2 is line-delimited JSON: a
// header object on the first line, then one [time, code, data] array per
// line, decoded lazily as the event sequence is pulled.
//
// Open detects the generation from the first line and returns the same
// Reader shape for both:
//
//	r, err := asciicast.OpenFromPath("demo.cast")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	w := asciicast.NewWriter(os.Stdout, 0)
//	w.WriteHeader(&r.Header)
//	for e, err := range asciicast.LimitIdleTime(r.Events, 2) {
//	    if err != nil {
//	        return err
//	    }
//	    w.WriteEvent(e)
//	}
//
// Writers only produce version 2.
package asciicast

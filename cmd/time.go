package main

import "time"

// Swapped in tests.
var timeNow = time.Now

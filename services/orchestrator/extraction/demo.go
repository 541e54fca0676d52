// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extraction

// DemoTitle names the built-in demo document.
const DemoTitle = "Physics & Economics Demo"

// DemoText is sample content exercising every built-in causal pattern.
const DemoText = `
When temperature increases in a closed container, pressure also increases proportionally.
This relationship is known as Gay-Lussac's Law.

As altitude increases, atmospheric pressure decreases because there is less air above.
Mountain climbers often experience this as they ascend to higher elevations.

In economics, when demand for a product increases, the market price tends to rise.
Conversely, when supply increases significantly, prices typically fall.

Exercise causes the heart rate to increase as the body needs more oxygen.
More intense exercise leads to a higher heart rate.

As the volume of a gas increases while temperature remains constant,
the pressure decreases according to Boyle's Law.
`
